package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/bytedance/sonic"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"codeberg.org/snonux/pidgix/internal/audio"
	"codeberg.org/snonux/pidgix/internal/batch"
	"codeberg.org/snonux/pidgix/internal/cli"
	"codeberg.org/snonux/pidgix/internal/history"
	"codeberg.org/snonux/pidgix/internal/translation"
)

// GenericFailureMessage is shown when every model tier failed
const GenericFailureMessage = "Omo, network wahala or api don tire. Try again abeg."

// translator is the part of *translation.Translator the processor needs
type translator interface {
	Translate(ctx context.Context, text string, tone translation.Tone, direction translation.Direction) (string, error)
	Tiers() []string
}

// Options injects collaborators. Nil fields are built from configuration
// on first use.
type Options struct {
	Translator translator
	Store      *history.Store
	// Providers picks the speech provider for the language being spoken
	Providers func(ctx context.Context, direction translation.Direction) audio.Provider
	Player    func(ctx context.Context, file string) error
	// Local speaks without a file for --no-save
	Local     audio.LocalSpeaker
	Clipboard func(text string) error
	Out       io.Writer
	Logger    *zap.Logger
}

// Processor handles the main translation logic
type Processor struct {
	flags            *cli.Flags
	opts             Options
	out              io.Writer
	logger           *zap.Logger
	translator       translator
	translationCache *translation.TranslationCache
	store            *history.Store
}

// NewProcessor creates a new processor
func NewProcessor(flags *cli.Flags, opts Options) *Processor {
	p := &Processor{
		flags:            flags,
		opts:             opts,
		out:              opts.Out,
		logger:           opts.Logger,
		translator:       opts.Translator,
		translationCache: translation.NewTranslationCache(),
		store:            opts.Store,
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	return p
}

// Close releases the history store
func (p *Processor) Close() error {
	if p.store == nil || p.opts.Store != nil {
		return nil
	}
	err := p.store.Close()
	p.store = nil
	return err
}

func (p *Processor) getLogger() *zap.Logger {
	if p.logger == nil {
		logger, err := cli.NewLogger(p.flags.Verbose)
		if err != nil {
			logger = zap.NewNop()
		}
		p.logger = logger
	}
	return p.logger
}

func (p *Processor) getTranslator(ctx context.Context) (translator, error) {
	if p.translator != nil {
		return p.translator, nil
	}

	t, err := buildTranslator(ctx, p.getLogger())
	if err != nil {
		return nil, err
	}
	p.translator = t
	return t, nil
}

// buildTranslator assembles the tier chain from configuration. Without a
// Gemini key the translator is still built so that Translate reports the
// missing credential without touching the network.
func buildTranslator(ctx context.Context, logger *zap.Logger) (*translation.Translator, error) {
	apiKey := cli.GetGeminiKey()
	config := translation.Config{
		APIKey:      apiKey,
		Temperature: float32(viper.GetFloat64("translation.temperature")),
		Logger:      logger,
	}
	if apiKey == "" {
		return translation.NewTranslator(config), nil
	}

	models := cli.GetModels()
	opts := translation.TierOptions{
		CircuitBreaker: viper.GetBool("translation.circuit_breaker"),
		BreakerConfig: gobreaker.Settings{
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		},
	}

	client, err := translation.NewGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	opts.GeminiClient = client

	if key := cli.GetOpenAIKey(); key != "" && usesOpenAI(models) {
		opts.OpenAIClient = openai.NewClient(key)
	}

	tiers, err := translation.BuildTiers(models, opts)
	if err != nil {
		return nil, err
	}
	config.Tiers = tiers

	return translation.NewTranslator(config), nil
}

func usesOpenAI(models []string) bool {
	for _, m := range models {
		if strings.HasPrefix(strings.TrimSpace(m), "openai:") {
			return true
		}
	}
	return false
}

func (p *Processor) getStore() (*history.Store, error) {
	if p.store != nil {
		return p.store, nil
	}

	store, err := history.Open(p.historyPath())
	if err != nil {
		return nil, err
	}
	p.store = store
	return store, nil
}

func (p *Processor) historyPath() string {
	if path := viper.GetString("history.path"); path != "" {
		return path
	}
	if p.flags.HistoryPath != "" {
		return p.flags.HistoryPath
	}
	return history.DefaultPath()
}

func (p *Processor) outputDir() string {
	if dir := viper.GetString("output.directory"); dir != "" {
		return dir
	}
	return p.flags.OutputDir
}

// resolveTone returns the tone for this run. An explicit --tone becomes the
// new persisted tone, otherwise the persisted one is used.
func (p *Processor) resolveTone(ctx context.Context, store *history.Store) (translation.Tone, error) {
	if p.flags.Tone == "" {
		return store.Tone(ctx)
	}

	tone, err := translation.ParseTone(p.flags.Tone)
	if err != nil {
		return "", err
	}
	if err := store.SetTone(ctx, tone); err != nil {
		return "", err
	}
	return tone, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// errInteractiveStdin means there is no text and stdin is a terminal, so
// reading it would wait for input nobody is piping in
var errInteractiveStdin = errors.New("no text given and stdin is a terminal")

// readText joins the arguments or falls back to piped stdin
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return "", errInteractiveStdin
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// userFacingError hides tier details behind the generic message unless
// verbose output was requested
func (p *Processor) userFacingError(err error) error {
	if !translation.IsExhausted(err) {
		return err
	}
	if p.flags.Verbose {
		return fmt.Errorf("%s: %w", GenericFailureMessage, err)
	}
	return errors.New(GenericFailureMessage)
}

// Translate translates the text given as arguments or on stdin, or every
// line of the --batch file
func (p *Processor) Translate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	if p.flags.BatchFile != "" {
		return p.ProcessBatch(ctx)
	}

	text, err := readText(cmd, args)
	if errors.Is(err, errInteractiveStdin) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("no text given. Pass it as an argument or on stdin")
	}

	direction, err := translation.ParseDirection(p.flags.Direction)
	if err != nil {
		return err
	}

	store, err := p.getStore()
	if err != nil {
		return err
	}
	tone, err := p.resolveTone(ctx, store)
	if err != nil {
		return err
	}

	result, err := p.translateOne(ctx, store, text, tone, direction)
	if err != nil {
		return p.userFacingError(err)
	}

	return p.deliver(ctx, result)
}

// deliver prints a result, then copies and speaks it when asked to
func (p *Processor) deliver(ctx context.Context, result history.Result) error {
	if err := p.printResult(result); err != nil {
		return err
	}

	if p.flags.Copy {
		if err := p.copyToClipboard(result.Translated); err != nil {
			return err
		}
	}

	if p.flags.Speak {
		return p.speakResult(ctx, result)
	}
	return nil
}

func (p *Processor) copyToClipboard(text string) error {
	write := p.opts.Clipboard
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	if !p.flags.JSON {
		fmt.Fprintln(p.out, "  Copied to clipboard")
	}
	return nil
}

// translateOne translates, records and returns a single result
func (p *Processor) translateOne(ctx context.Context, store *history.Store, text string, tone translation.Tone, direction translation.Direction) (history.Result, error) {
	tr, err := p.getTranslator(ctx)
	if err != nil {
		return history.Result{}, err
	}

	translated, ok := p.translationCache.Get(text, tone, direction)
	if !ok {
		translated, err = tr.Translate(ctx, text, tone, direction)
		if err != nil {
			return history.Result{}, err
		}
		p.translationCache.Add(text, tone, direction, translated)
	}

	result := history.NewResult(text, translated, tone, direction)
	if err := store.Append(ctx, result); err != nil {
		return history.Result{}, fmt.Errorf("failed to save history: %w", err)
	}
	return result, nil
}

func (p *Processor) printResult(result history.Result) error {
	if p.flags.JSON {
		data, err := sonic.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(p.out, string(data))
		return nil
	}

	direction := result.EffectiveDirection()
	fmt.Fprintf(p.out, "[%s] %s → %s\n", result.Tone.Label(), direction.SourceLanguage(), direction.TargetLanguage())
	fmt.Fprintln(p.out, result.Translated)
	return nil
}

// ProcessBatch translates every entry of the batch file
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	direction, err := translation.ParseDirection(p.flags.Direction)
	if err != nil {
		return err
	}

	store, err := p.getStore()
	if err != nil {
		return err
	}
	sessionTone, err := p.resolveTone(ctx, store)
	if err != nil {
		return err
	}

	// Track statistics
	processedCount := 0
	errorCount := 0
	var results []history.Result

	for i, entry := range entries {
		tone := entry.Tone
		if tone == "" {
			tone = sessionTone
		}

		if !p.flags.JSON {
			fmt.Fprintf(p.out, "\nTranslating %d/%d: %s\n", i+1, len(entries), entry.Text)
		}

		result, err := p.translateOne(ctx, store, entry.Text, tone, direction)
		if err != nil {
			if translation.IsConfigurationError(err) {
				return err
			}
			fmt.Fprintf(os.Stderr, "Error translating line %d: %v\n", entry.Line, p.userFacingError(err))
			errorCount++
			continue
		}
		processedCount++
		results = append(results, result)

		if !p.flags.JSON {
			fmt.Fprintf(p.out, "  %s\n", result.Translated)
		}

		if p.flags.Speak {
			if err := p.speakResult(ctx, result); err != nil {
				fmt.Fprintf(os.Stderr, "Error speaking line %d: %v\n", entry.Line, err)
			}
		}
	}

	if p.flags.JSON {
		data, err := sonic.Marshal(results)
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		fmt.Fprintln(p.out, string(data))
		return nil
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Translation Summary ===\n")
	fmt.Fprintf(p.out, "Total texts: %d\n", len(entries))
	fmt.Fprintf(p.out, "Translated: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "=================================\n")

	return nil
}
