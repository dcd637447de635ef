package processor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"codeberg.org/snonux/pidgix/internal/audio"
	"codeberg.org/snonux/pidgix/internal/cli"
	"codeberg.org/snonux/pidgix/internal/history"
	"codeberg.org/snonux/pidgix/internal/testutil"
	"codeberg.org/snonux/pidgix/internal/translation"
)

type fixture struct {
	dir        string
	flags      *cli.Flags
	out        *bytes.Buffer
	store      *history.Store
	translator *testutil.MockTranslator
	provider   *testutil.MockProvider
	player     *testutil.MockPlayer
	speaker    *testutil.MockSpeaker
	clipboard  *testutil.MockClipboard
	spoken     []translation.Direction
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := testutil.CreateTestDirectory(t)
	flags := cli.NewFlags()
	flags.OutputDir = filepath.Join(dir, "audio")

	gen := &testutil.TestDataGenerator{}
	return &fixture{
		dir:   dir,
		flags: flags,
		out:   &bytes.Buffer{},
		store: testutil.OpenTestStore(t, dir),
		translator: &testutil.MockTranslator{
			Translations: map[string]string{gen.GenerateEnglishText(): gen.GeneratePidginText()},
		},
		provider:  &testutil.MockProvider{},
		player:    &testutil.MockPlayer{},
		speaker:   &testutil.MockSpeaker{},
		clipboard: &testutil.MockClipboard{},
	}
}

func (f *fixture) processor() *Processor {
	return f.processorWith(f.translator)
}

func (f *fixture) processorWith(tr translator) *Processor {
	return NewProcessor(f.flags, Options{
		Translator: tr,
		Store:      f.store,
		Providers: func(ctx context.Context, direction translation.Direction) audio.Provider {
			f.spoken = append(f.spoken, direction)
			return f.provider
		},
		Player:    f.player.Play,
		Local:     f.speaker,
		Clipboard: f.clipboard.WriteAll,
		Out:       f.out,
		Logger:    zap.NewNop(),
	})
}

func (f *fixture) history(t *testing.T) []history.Result {
	t.Helper()
	results, err := f.store.LoadAll(context.Background())
	require.NoError(t, err)
	return results
}

func TestTranslate_RecordsHistory(t *testing.T) {
	f := newFixture(t)
	gen := &testutil.TestDataGenerator{}

	err := f.processor().Translate(&cobra.Command{}, strings.Fields(gen.GenerateEnglishText()))
	require.NoError(t, err)

	assert.Contains(t, f.out.String(), gen.GeneratePidginText())
	assert.Contains(t, f.out.String(), "[Street Level: High] English → Pidgin")

	results := f.history(t)
	require.Len(t, results, 1)
	assert.Equal(t, gen.GenerateEnglishText(), results[0].Original)
	assert.Equal(t, gen.GeneratePidginText(), results[0].Translated)
	assert.Equal(t, translation.ToneStreet, results[0].Tone)
	assert.Equal(t, translation.EnglishToPidgin, results[0].Direction)
	assert.Empty(t, f.player.Played)
}

func TestTranslate_ExplicitTonePersists(t *testing.T) {
	f := newFixture(t)
	f.flags.Tone = "respectful"

	require.NoError(t, f.processor().Translate(&cobra.Command{}, []string{"Good morning"}))

	tone, err := f.store.Tone(context.Background())
	require.NoError(t, err)
	assert.Equal(t, translation.ToneRespectful, tone)
	assert.Equal(t, []string{"Translate: Good morning (respectful, english-to-pidgin)"}, f.translator.Calls)

	// The next run without --tone keeps the persisted tone
	f.flags.Tone = ""
	require.NoError(t, f.processor().Translate(&cobra.Command{}, []string{"Good evening"}))
	assert.Equal(t, "Translate: Good evening (respectful, english-to-pidgin)", f.translator.Calls[1])
}

func TestTranslate_InvalidToneAndDirection(t *testing.T) {
	f := newFixture(t)
	f.flags.Tone = "loud"
	assert.Error(t, f.processor().Translate(&cobra.Command{}, []string{"hello"}))

	f.flags.Tone = ""
	f.flags.Direction = "to-klingon"
	assert.Error(t, f.processor().Translate(&cobra.Command{}, []string{"hello"}))

	assert.Empty(t, f.translator.Calls)
}

func TestTranslate_ReadsStdin(t *testing.T) {
	f := newFixture(t)
	f.flags.Direction = "to-english"

	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("  How you dey?\n"))
	require.NoError(t, f.processor().Translate(cmd, nil))

	assert.Equal(t, []string{"Translate: How you dey? (street, pidgin-to-english)"}, f.translator.Calls)
}

func TestTranslate_NoText(t *testing.T) {
	f := newFixture(t)

	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("   "))
	assert.Error(t, f.processor().Translate(cmd, nil))
	assert.Empty(t, f.translator.Calls)
}

func TestTranslate_JSON(t *testing.T) {
	f := newFixture(t)
	f.flags.JSON = true

	require.NoError(t, f.processor().Translate(&cobra.Command{}, []string{"hello"}))

	out := f.out.String()
	assert.Contains(t, out, `"original":"hello"`)
	assert.Contains(t, out, `"translated":"mock translation of hello"`)
	assert.Contains(t, out, `"tone":"street"`)
}

func failingTiers(n int) []translation.Tier {
	tiers := make([]translation.Tier, n)
	for i := range tiers {
		tiers[i] = &testutil.MockTier{Label: "model", Err: errors.New("503 overloaded")}
	}
	return tiers
}

func TestTranslate_ExhaustedShowsGenericMessage(t *testing.T) {
	f := newFixture(t)
	tr := translation.NewTranslator(translation.Config{APIKey: "k", Tiers: failingTiers(5)})

	err := f.processorWith(tr).Translate(&cobra.Command{}, []string{"hello"})
	require.Error(t, err)
	assert.Equal(t, GenericFailureMessage, err.Error())
	assert.Empty(t, f.history(t))
}

func TestTranslate_ExhaustedVerboseShowsDetail(t *testing.T) {
	f := newFixture(t)
	f.flags.Verbose = true
	tr := translation.NewTranslator(translation.Config{APIKey: "k", Tiers: failingTiers(5)})

	err := f.processorWith(tr).Translate(&cobra.Command{}, []string{"hello"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), GenericFailureMessage))
	assert.Contains(t, err.Error(), "503 overloaded")
	assert.True(t, translation.IsExhausted(err))
}

func TestTranslate_FallbackTierSucceeds(t *testing.T) {
	f := newFixture(t)
	tiers := append(failingTiers(3), &testutil.MockTier{Label: "fourth", Text: " I dey come \n"})
	tr := translation.NewTranslator(translation.Config{APIKey: "k", Tiers: tiers})

	require.NoError(t, f.processorWith(tr).Translate(&cobra.Command{}, []string{"I am coming"}))

	results := f.history(t)
	require.Len(t, results, 1)
	assert.Equal(t, "I dey come", results[0].Translated)
	assert.Equal(t, 1, tiers[3].(*testutil.MockTier).Calls())
}

func TestTranslate_MissingAPIKey(t *testing.T) {
	f := newFixture(t)
	tier := &testutil.MockTier{Label: "model", Text: "unused"}
	tr := translation.NewTranslator(translation.Config{Tiers: []translation.Tier{tier}})

	err := f.processorWith(tr).Translate(&cobra.Command{}, []string{"hello"})
	assert.True(t, translation.IsConfigurationError(err))
	assert.Equal(t, 0, tier.Calls())
}

func TestTranslate_Speak(t *testing.T) {
	f := newFixture(t)
	f.flags.Speak = true

	require.NoError(t, f.processor().Translate(&cobra.Command{}, []string{"hello"}))

	require.Len(t, f.provider.Calls, 1)
	require.Len(t, f.player.Played, 1)
	testutil.AssertFileExists(t, f.player.Played[0])
	testutil.AssertFileContains(t, f.player.Played[0], "RIFF")

	result := f.history(t)[0]
	assert.True(t, strings.HasSuffix(f.player.Played[0], "_"+result.ID+".wav"))
	assert.Equal(t, []translation.Direction{translation.EnglishToPidgin}, f.spoken)
}

func TestTranslate_SpeakNoPlay(t *testing.T) {
	f := newFixture(t)
	f.flags.Speak = true
	f.flags.NoPlay = true

	require.NoError(t, f.processor().Translate(&cobra.Command{}, []string{"hello"}))

	assert.Len(t, f.provider.Calls, 1)
	assert.Empty(t, f.player.Played)
}

func TestTranslate_SpeakFailure(t *testing.T) {
	f := newFixture(t)
	f.flags.Speak = true
	f.provider.Err = errors.New("espeak-ng not found")

	err := f.processor().Translate(&cobra.Command{}, []string{"hello"})
	assert.ErrorContains(t, err, "audio generation failed")
	// The translation itself was still recorded
	assert.Len(t, f.history(t), 1)
}

func TestSpeak(t *testing.T) {
	f := newFixture(t)
	f.flags.Direction = "to-english"

	require.NoError(t, f.processor().Speak(&cobra.Command{}, []string{"I", "go", "soon", "land"}))

	require.Len(t, f.provider.Calls, 1)
	assert.True(t, strings.HasPrefix(f.provider.Calls[0], "I go soon land -> "))
	assert.Equal(t, []translation.Direction{translation.PidginToEnglish}, f.spoken)
	assert.Empty(t, f.translator.Calls)
	assert.Empty(t, f.history(t))
}

func TestProcessBatch(t *testing.T) {
	f := newFixture(t)
	batchFile := filepath.Join(f.dir, "texts.txt")
	testutil.CreateTestFile(t, batchFile, []byte("# greetings\nGood morning\nrespectful: Good morning\nGood morning\n"))
	f.flags.BatchFile = batchFile

	require.NoError(t, f.processor().Translate(&cobra.Command{}, nil))

	// The repeated street line is served from the cache
	assert.Equal(t, []string{
		"Translate: Good morning (street, english-to-pidgin)",
		"Translate: Good morning (respectful, english-to-pidgin)",
	}, f.translator.Calls)
	assert.Len(t, f.history(t), 3)
	assert.Contains(t, f.out.String(), "Total texts: 3")
	assert.Contains(t, f.out.String(), "Translated: 3")
}

func TestProcessBatch_CountsErrors(t *testing.T) {
	f := newFixture(t)
	batchFile := filepath.Join(f.dir, "texts.txt")
	testutil.CreateTestFile(t, batchFile, []byte("hello\nbroken\n"))
	f.flags.BatchFile = batchFile
	f.translator.Errors = map[string]error{"broken": errors.New("boom")}

	require.NoError(t, f.processor().ProcessBatch(context.Background()))

	assert.Contains(t, f.out.String(), "Translated: 1")
	assert.Contains(t, f.out.String(), "Errors: 1")
	assert.Len(t, f.history(t), 1)
}

func TestHistoryListAndClear(t *testing.T) {
	f := newFixture(t)
	p := f.processor()

	require.NoError(t, p.HistoryList(&cobra.Command{}, nil))
	assert.Contains(t, f.out.String(), "No translations yet.")

	require.NoError(t, p.Translate(&cobra.Command{}, []string{"first"}))
	require.NoError(t, p.Translate(&cobra.Command{}, []string{"second"}))

	f.out.Reset()
	require.NoError(t, p.HistoryList(&cobra.Command{}, nil))
	out := f.out.String()
	assert.Less(t, strings.Index(out, "second"), strings.Index(out, "first"), "newest entry should come first")

	f.out.Reset()
	f.flags.JSON = true
	require.NoError(t, p.HistoryList(&cobra.Command{}, nil))
	assert.True(t, strings.HasPrefix(f.out.String(), "["))

	require.NoError(t, p.HistoryClear(&cobra.Command{}, nil))
	assert.Empty(t, f.history(t))
}

func TestHistoryExport(t *testing.T) {
	f := newFixture(t)
	f.flags.Speak = true
	f.flags.NoPlay = true
	f.flags.AnkiOutput = filepath.Join(f.dir, "anki.csv")
	p := f.processor()

	assert.Error(t, p.HistoryExport(&cobra.Command{}, nil), "empty history cannot be exported")

	require.NoError(t, p.Translate(&cobra.Command{}, []string{"hello"}))
	require.NoError(t, p.HistoryExport(&cobra.Command{}, nil))

	testutil.AssertFileContains(t, f.flags.AnkiOutput, "mock translation of hello")
	testutil.AssertFileContains(t, f.flags.AnkiOutput, "[sound:")
	assert.Contains(t, f.out.String(), "(1 cards, 1 with audio)")
}

func TestHistoryArchive(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := testutil.CreateTestDirectory(t)
	flags := cli.NewFlags()
	flags.HistoryPath = filepath.Join(dir, "history", "history.db")
	flags.OutputDir = filepath.Join(dir, "audio")
	out := &bytes.Buffer{}
	p := NewProcessor(flags, Options{Translator: &testutil.MockTranslator{}, Out: out, Logger: zap.NewNop()})

	require.NoError(t, p.Translate(&cobra.Command{}, []string{"hello"}))
	require.NoError(t, p.HistoryArchive(&cobra.Command{}, nil))

	testutil.AssertFileNotExists(t, flags.HistoryPath)
	matches, err := filepath.Glob(filepath.Join(dir, "history", "archive", "history-*.db"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	// A fresh store starts empty
	require.NoError(t, p.HistoryList(&cobra.Command{}, nil))
	assert.Contains(t, out.String(), "No translations yet.")
	require.NoError(t, p.Close())
}

func TestHistoryArchive_Missing(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	flags := cli.NewFlags()
	flags.HistoryPath = filepath.Join(t.TempDir(), "missing.db")
	p := NewProcessor(flags, Options{Out: &bytes.Buffer{}, Logger: zap.NewNop()})

	assert.Error(t, p.HistoryArchive(&cobra.Command{}, nil))
	_, err := os.Stat(flags.HistoryPath)
	assert.True(t, os.IsNotExist(err))
}

func TestTone(t *testing.T) {
	f := newFixture(t)
	p := f.processor()

	require.NoError(t, p.Tone(&cobra.Command{}, nil))
	assert.Contains(t, f.out.String(), "street (Street Level: High)")

	require.NoError(t, p.Tone(&cobra.Command{}, []string{"respectful"}))
	assert.Contains(t, f.out.String(), "Tone set to respectful (Respect Level: Maximum)")

	assert.Error(t, p.Tone(&cobra.Command{}, []string{"shouty"}))

	tone, err := f.store.Tone(context.Background())
	require.NoError(t, err)
	assert.Equal(t, translation.ToneRespectful, tone)
}

func TestModels_NoAPIKey(t *testing.T) {
	f := newFixture(t)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	assert.Error(t, f.processor().Models(&cobra.Command{}, nil))
}

func TestUsesOpenAI(t *testing.T) {
	assert.True(t, usesOpenAI([]string{"gemini-2.5-flash", " openai:gpt-4o-mini"}))
	assert.False(t, usesOpenAI(translation.DefaultModels))
}

func TestBuildTranslator_NoKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	tr, err := buildTranslator(context.Background(), zap.NewNop())
	require.NoError(t, err)

	_, err = tr.Translate(context.Background(), "hello", translation.ToneStreet, translation.EnglishToPidgin)
	assert.True(t, translation.IsConfigurationError(err))
}

func TestBuildTranslator_Tiers(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "")
	viper.Set("translation.models", []string{"gemini-2.5-flash", "gemini-2.5-pro"})
	viper.Set("translation.circuit_breaker", true)

	tr, err := buildTranslator(context.Background(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-pro"}, tr.Tiers())

	// OpenAI tiers need a key
	viper.Set("translation.models", []string{"openai:gpt-4o-mini"})
	_, err = buildTranslator(context.Background(), zap.NewNop())
	assert.Error(t, err)
}

func TestTranslate_Copy(t *testing.T) {
	f := newFixture(t)
	f.flags.Copy = true

	require.NoError(t, f.processor().Translate(&cobra.Command{}, []string{"hello"}))

	assert.Equal(t, []string{"mock translation of hello"}, f.clipboard.Copied)
	assert.Contains(t, f.out.String(), "Copied to clipboard")
}

func TestTranslate_CopyFailure(t *testing.T) {
	f := newFixture(t)
	f.flags.Copy = true
	f.clipboard.Err = errors.New("no clipboard utility")

	err := f.processor().Translate(&cobra.Command{}, []string{"hello"})
	assert.ErrorContains(t, err, "failed to copy to clipboard")
	assert.Len(t, f.history(t), 1)
}

func TestTranslate_NoCopyByDefault(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.processor().Translate(&cobra.Command{}, []string{"hello"}))
	assert.Empty(t, f.clipboard.Copied)
}

func TestHistoryShow(t *testing.T) {
	f := newFixture(t)
	p := f.processor()

	require.NoError(t, p.Translate(&cobra.Command{}, []string{"first"}))
	require.NoError(t, p.Translate(&cobra.Command{}, []string{"second"}))
	older := f.history(t)[1]

	f.out.Reset()
	require.NoError(t, p.HistoryShow(&cobra.Command{}, []string{older.ID}))

	out := f.out.String()
	assert.Contains(t, out, older.ID)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "mock translation of first")
	assert.NotContains(t, out, "second")
	assert.Empty(t, f.provider.Calls)
}

func TestHistoryShow_SpeakAndCopy(t *testing.T) {
	f := newFixture(t)
	p := f.processor()

	require.NoError(t, p.Translate(&cobra.Command{}, []string{"hello"}))
	entry := f.history(t)[0]

	f.flags.Speak = true
	f.flags.Copy = true
	require.NoError(t, p.HistoryShow(&cobra.Command{}, []string{entry.ID}))

	// Replaying does not add a new history entry
	assert.Len(t, f.history(t), 1)
	assert.Equal(t, []string{entry.Translated}, f.clipboard.Copied)
	require.Len(t, f.player.Played, 1)
	assert.True(t, strings.HasSuffix(f.player.Played[0], "_"+entry.ID+".wav"))
}

func TestHistoryShow_UnknownID(t *testing.T) {
	f := newFixture(t)

	err := f.processor().HistoryShow(&cobra.Command{}, []string{"does-not-exist"})
	assert.ErrorContains(t, err, "no history entry with id does-not-exist")
}

func TestHistoryList_ShowsIDs(t *testing.T) {
	f := newFixture(t)
	p := f.processor()

	require.NoError(t, p.Translate(&cobra.Command{}, []string{"hello"}))
	f.out.Reset()
	require.NoError(t, p.HistoryList(&cobra.Command{}, nil))

	assert.Contains(t, f.out.String(), f.history(t)[0].ID)
}

func TestSpeak_NoSaveSpeaksLocally(t *testing.T) {
	f := newFixture(t)
	f.flags.Direction = "to-english"
	f.flags.NoSave = true

	require.NoError(t, f.processor().Speak(&cobra.Command{}, []string{"Good", "morning"}))

	assert.Equal(t, []string{"en: Good morning"}, f.speaker.Spoken)
	assert.Empty(t, f.provider.Calls)
	assert.Empty(t, f.player.Played)
	entries, err := os.ReadDir(f.flags.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTranslate_SpeakNoSave(t *testing.T) {
	f := newFixture(t)
	f.flags.Speak = true
	f.flags.NoSave = true

	require.NoError(t, f.processor().Translate(&cobra.Command{}, []string{"hello"}))

	assert.Equal(t, []string{"pcm: mock translation of hello"}, f.speaker.Spoken)
	assert.Empty(t, f.provider.Calls)
}

func TestSpeak_NoSaveFailure(t *testing.T) {
	f := newFixture(t)
	f.flags.NoSave = true
	f.speaker.Err = errors.New("espeak-ng not found")

	err := f.processor().Speak(&cobra.Command{}, []string{"hello"})
	assert.ErrorContains(t, err, "speech failed")
}

func TestReadText_PipedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	testutil.CreateTestFile(t, path, []byte("How you dey?\n"))
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	assert.False(t, isTerminal(file))

	cmd := &cobra.Command{}
	cmd.SetIn(file)
	text, err := readText(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "How you dey?", text)
}

func TestReadText_PipeIsNotTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	assert.False(t, isTerminal(r))
	assert.False(t, isTerminal(w))
	w.Close()
}

func TestReadText_ArgumentsSkipStdin(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(os.Stdin)

	text, err := readText(cmd, []string{" I", "dey", "come "})
	require.NoError(t, err)
	assert.Equal(t, "I dey come", text)
}
