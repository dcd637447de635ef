package audio

import "context"

// ESpeakProvider implements Provider interface for espeak-ng
type ESpeakProvider struct {
	espeak *ESpeak
	locale string
}

// NewESpeakProvider creates a new espeak-ng provider speaking in locale
func NewESpeakProvider(espeak *ESpeak, locale string) *ESpeakProvider {
	return &ESpeakProvider{espeak: espeak, locale: locale}
}

// GenerateAudio generates a WAV file using espeak-ng
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	return p.espeak.GenerateWAV(ctx, text, p.locale, outputFile)
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return p.espeak.IsInstalled()
}
