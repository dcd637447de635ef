package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/pidgix/internal"
	"codeberg.org/snonux/pidgix/internal/audio"
	"codeberg.org/snonux/pidgix/internal/cli"
	"codeberg.org/snonux/pidgix/internal/history"
	"codeberg.org/snonux/pidgix/internal/translation"
)

// Speak renders the given text as speech in the target language of
// --direction without translating it
func (p *Processor) Speak(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	text := strings.TrimSpace(strings.Join(args, " "))
	if err := audio.ValidateText(text); err != nil {
		return err
	}

	direction, err := translation.ParseDirection(p.flags.Direction)
	if err != nil {
		return err
	}

	_, err = p.speak(ctx, text, direction, internal.NewResultID(), time.Now())
	return err
}

func (p *Processor) speakResult(ctx context.Context, result history.Result) error {
	_, err := p.speak(ctx, result.Translated, result.EffectiveDirection(), result.ID, result.Timestamp)
	return err
}

// speak writes the speech file for text and plays it unless --no-play.
// With --no-save the text is read aloud locally and no file is written.
func (p *Processor) speak(ctx context.Context, text string, direction translation.Direction, id string, created time.Time) (string, error) {
	if p.flags.NoSave {
		return "", p.speakLocally(ctx, text, direction)
	}

	outputDir := p.outputDir()
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	provider := p.provider(ctx, direction)
	outputFile := filepath.Join(outputDir, internal.AudioFileName(id, created))

	if !p.flags.JSON {
		fmt.Fprintf(p.out, "  Generating audio with %s...\n", provider.Name())
	}
	if err := provider.GenerateAudio(ctx, text, outputFile); err != nil {
		return "", fmt.Errorf("audio generation failed: %w", err)
	}
	if !p.flags.JSON {
		fmt.Fprintf(p.out, "  Audio saved: %s\n", outputFile)
	}

	if p.flags.NoPlay {
		return outputFile, nil
	}

	play := p.opts.Player
	if play == nil {
		play = audio.Play
	}
	if err := play(ctx, outputFile); err != nil {
		// The file is still there to play by hand
		fmt.Fprintf(os.Stderr, "Warning: Failed to play audio: %v\n", err)
	}
	return outputFile, nil
}

// speakLocally reads text aloud with espeak-ng in the spoken language
func (p *Processor) speakLocally(ctx context.Context, text string, direction translation.Direction) error {
	locale := audio.LocalePidgin
	if direction == translation.PidginToEnglish {
		locale = audio.LocaleEnglish
	}

	local := p.opts.Local
	if local == nil {
		local = audio.New(audio.DefaultConfig())
	}

	if !p.flags.JSON {
		fmt.Fprintf(p.out, "  Speaking with espeak-ng (%s)...\n", locale)
	}
	if err := local.Speak(ctx, text, locale); err != nil {
		return fmt.Errorf("speech failed: %w", err)
	}
	return nil
}

// provider picks the speech pathway. Pidgin output goes to the Gemini
// speech model with a local espeak-ng fallback, English output is spoken
// locally.
func (p *Processor) provider(ctx context.Context, direction translation.Direction) audio.Provider {
	if p.opts.Providers != nil {
		return p.opts.Providers(ctx, direction)
	}

	espeak := audio.New(audio.DefaultConfig())
	if direction == translation.PidginToEnglish {
		return audio.NewESpeakProvider(espeak, audio.LocaleEnglish)
	}

	local := audio.NewESpeakProvider(espeak, audio.LocalePidgin)
	speaker, err := audio.NewGeminiSpeaker(ctx, &audio.SpeechConfig{
		APIKey: cli.GetGeminiKey(),
		Model:  viper.GetString("speech.model"),
		Voice:  viper.GetString("speech.voice"),
	})
	if err != nil {
		p.getLogger().Debug("Gemini speech unavailable, using espeak-ng")
		return local
	}

	return audio.NewProviderWithFallback(audio.NewGeminiProvider(speaker), local, p.getLogger())
}
