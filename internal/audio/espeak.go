package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Locales understood by the local synthesizer
const (
	LocaleEnglish = "en"
	LocalePidgin  = "pcm"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voices    map[string]string // locale -> espeak-ng voice
	Speed     int               // Speech speed in words per minute (default: 160)
	Pitch     int               // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int               // Volume/amplitude, 0 to 200 (default: 100)
	Binary    string            // espeak-ng executable
}

// DefaultConfig returns the default configuration. espeak-ng has no
// Nigerian voice, so Pidgin is read with a West African English variant
// at a slower pace.
func DefaultConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voices: map[string]string{
			LocaleEnglish: "en-us",
			LocalePidgin:  "en+m3",
		},
		Speed:     160,
		Pitch:     50,
		Amplitude: 100,
		Binary:    "espeak-ng",
	}
}

// ESpeak provides an interface to the espeak-ng text-to-speech engine
type ESpeak struct {
	config *ESpeakConfig
}

// New creates a new ESpeak instance with the given configuration. The
// binary is not checked here; see IsInstalled.
func New(config *ESpeakConfig) *ESpeak {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Binary == "" {
		config.Binary = "espeak-ng"
	}
	return &ESpeak{config: config}
}

// VoiceFor maps a locale to an espeak-ng voice
func (e *ESpeak) VoiceFor(locale string) string {
	if v, ok := e.config.Voices[strings.ToLower(locale)]; ok {
		return v
	}
	return e.config.Voices[LocaleEnglish]
}

// args builds the command line for locale; outputFile may be empty to
// speak through the sound card
func (e *ESpeak) args(text, locale, outputFile string) []string {
	speed := e.config.Speed
	if locale == LocalePidgin {
		speed = speed * 9 / 10
	}

	args := []string{
		"-v", e.VoiceFor(locale),
		"-s", fmt.Sprintf("%d", speed),
		"-p", fmt.Sprintf("%d", e.config.Pitch),
		"-a", fmt.Sprintf("%d", e.config.Amplitude),
	}
	if outputFile != "" {
		args = append(args, "-w", outputFile)
	}
	return append(args, text)
}

// Speak reads text aloud on this device
func (e *ESpeak) Speak(ctx context.Context, text, locale string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, e.config.Binary, e.args(text, locale, "")...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// GenerateWAV writes the spoken text to a WAV file
func (e *ESpeak) GenerateWAV(ctx context.Context, text, locale, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, e.config.Binary, e.args(text, locale, outputFile)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// IsInstalled verifies that espeak-ng is available on the system
func (e *ESpeak) IsInstalled() error {
	if _, err := exec.LookPath(e.config.Binary); err != nil {
		return fmt.Errorf("%s is not installed or not in PATH: %w", e.config.Binary, err)
	}
	return nil
}
