package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/snonux/pidgix/internal/audio"
	"codeberg.org/snonux/pidgix/internal/translation"
)

// MockTier mocks one model tier
type MockTier struct {
	Label string
	Text  string
	Empty bool
	Err   error

	mu       sync.Mutex
	Requests []translation.Request
}

// Name returns the tier label
func (m *MockTier) Name() string {
	return m.Label
}

// Generate records the request and replies with the configured outcome
func (m *MockTier) Generate(ctx context.Context, req translation.Request) (translation.Response, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return translation.Response{}, m.Err
	}
	if m.Empty {
		return translation.Response{}, nil
	}
	return translation.Response{Text: m.Text, Present: true}, nil
}

// Calls returns how often the tier was asked
func (m *MockTier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// MockTranslator mocks the translation service
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text string, tone translation.Tone, direction translation.Direction) (string, error) {
	call := fmt.Sprintf("Translate: %s (%s, %s)", text, tone, direction)
	m.Calls = append(m.Calls, call)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translated, ok := m.Translations[text]; ok {
		return translated, nil
	}

	// Default mock translation
	return fmt.Sprintf("mock translation of %s", text), nil
}

// Tiers returns a fixed tier list
func (m *MockTranslator) Tiers() []string {
	return []string{"mock-model"}
}

// MockProvider mocks a speech provider and writes a small WAV file
type MockProvider struct {
	Label string
	Err   error
	Calls []string
}

// GenerateAudio mocks speech generation
func (m *MockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.Calls = append(m.Calls, fmt.Sprintf("%s -> %s", text, outputFile))
	if m.Err != nil {
		return m.Err
	}

	// 100 ms of 16-bit mono silence
	wav, err := audio.NewPCM(make([]byte, audio.DefaultSampleRate/10*2)).WAV()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputFile, wav, 0644)
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	if m.Label == "" {
		return "mock"
	}
	return m.Label
}

// IsAvailable always reports success
func (m *MockProvider) IsAvailable() error {
	return nil
}

// MockPlayer records played files
type MockPlayer struct {
	Err    error
	Played []string
}

// Play mocks audio playback
func (m *MockPlayer) Play(ctx context.Context, file string) error {
	m.Played = append(m.Played, file)
	return m.Err
}

// MockSpeaker records text read aloud without a file
type MockSpeaker struct {
	Err    error
	Spoken []string
}

// Speak mocks local speech
func (m *MockSpeaker) Speak(ctx context.Context, text, locale string) error {
	m.Spoken = append(m.Spoken, locale+": "+text)
	return m.Err
}

// MockClipboard records copied text
type MockClipboard struct {
	Err    error
	Copied []string
}

// WriteAll mocks writing to the system clipboard
func (m *MockClipboard) WriteAll(text string) error {
	m.Copied = append(m.Copied, text)
	return m.Err
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// GenerateEnglishText returns a sample English sentence
func (g *TestDataGenerator) GenerateEnglishText() string {
	return "I will be there in ten minutes."
}

// GeneratePidginText returns the Pidgin rendering of GenerateEnglishText
func (g *TestDataGenerator) GeneratePidginText() string {
	return "Give me ten minutes, I go soon land."
}
