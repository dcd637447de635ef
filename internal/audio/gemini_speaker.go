package audio

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"codeberg.org/snonux/pidgix/internal/translation"
)

// ErrNoAudioReturned is returned when the speech model answers without an
// audio payload
var ErrNoAudioReturned = errors.New("no audio returned")

// SpeechPrompt is prepended to every text sent to the speech model
const SpeechPrompt = "Speak the following with a Nigerian accent: "

// SpeechConfig configures the Gemini speech model
type SpeechConfig struct {
	APIKey string
	Model  string // Gemini model with audio output
	Voice  string // prebuilt voice name
}

// DefaultSpeechConfig returns default configuration
func DefaultSpeechConfig() *SpeechConfig {
	return &SpeechConfig{
		Model: "gemini-2.5-flash-preview-tts",
		Voice: "Kore",
	}
}

// contentGenerator is the part of *genai.Models used by GeminiSpeaker
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSpeaker requests synthesized speech from a single Gemini model.
// There is no retry; callers fall back to local synthesis on error.
type GeminiSpeaker struct {
	config *SpeechConfig
	models contentGenerator
}

// NewGeminiSpeaker creates a speaker with its own Gemini client
func NewGeminiSpeaker(ctx context.Context, config *SpeechConfig) (*GeminiSpeaker, error) {
	if config == nil {
		config = DefaultSpeechConfig()
	}
	if config.APIKey == "" {
		return nil, &translation.ConfigurationError{Setting: "Gemini API key"}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSpeaker{config: withSpeechDefaults(config), models: client.Models}, nil
}

func withSpeechDefaults(config *SpeechConfig) *SpeechConfig {
	c := *config
	defaults := DefaultSpeechConfig()
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.Voice == "" {
		c.Voice = defaults.Voice
	}
	return &c
}

// Synthesize returns the spoken rendering of text as PCM samples
func (s *GeminiSpeaker) Synthesize(ctx context.Context, text string) (*PCM, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.config.Voice},
			},
		},
	}

	resp, err := s.models.GenerateContent(ctx, s.config.Model, genai.Text(SpeechPrompt+text), config)
	if err != nil {
		return nil, fmt.Errorf("Gemini TTS API error: %w", err)
	}

	blob := firstInlineAudio(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, ErrNoAudioReturned
	}

	pcm := &PCM{
		Data:       blob.Data,
		SampleRate: sampleRateFromMIME(blob.MIMEType),
		Channels:   DefaultChannels,
	}
	if err := pcm.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audio from Gemini: %w", err)
	}
	return pcm, nil
}

// Voice returns the configured voice name
func (s *GeminiSpeaker) Voice() string {
	return s.config.Voice
}

// Model returns the configured model
func (s *GeminiSpeaker) Model() string {
	return s.config.Model
}

func firstInlineAudio(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData
			}
		}
	}
	return nil
}
