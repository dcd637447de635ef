package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Synthesizer produces PCM samples for text
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*PCM, error)
}

// LocalSpeaker reads text aloud on this device without writing a file
type LocalSpeaker interface {
	Speak(ctx context.Context, text, locale string) error
}

// voiceDescriber is implemented by synthesizers that know their model and voice
type voiceDescriber interface {
	Model() string
	Voice() string
}

// GeminiProvider writes Gemini speech to WAV files
type GeminiProvider struct {
	speaker Synthesizer
}

// NewGeminiProvider creates a provider backed by the given synthesizer
func NewGeminiProvider(speaker Synthesizer) *GeminiProvider {
	return &GeminiProvider{speaker: speaker}
}

// GenerateAudio synthesizes text and stores it as WAV
func (p *GeminiProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	pcm, err := p.speaker.Synthesize(ctx, text)
	if err != nil {
		return err
	}

	wav, err := pcm.WAV()
	if err != nil {
		return err
	}

	return writeFile(outputFile, wav)
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	if d, ok := p.speaker.(voiceDescriber); ok {
		return fmt.Sprintf("gemini (%s, voice %s)", d.Model(), d.Voice())
	}
	return "gemini"
}

// IsAvailable checks that a speaker is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.speaker == nil {
		return fmt.Errorf("Gemini speaker not configured")
	}
	return nil
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err != nil {
		p.logger.Warn("primary speech provider failed, falling back",
			zap.String("primary", p.primary.Name()),
			zap.String("fallback", p.fallback.Name()),
			zap.Error(err))

		return p.fallback.GenerateAudio(ctx, text, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// writeFile creates the parent directory and writes data
func writeFile(outputFile string, data []byte) error {
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}
