package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Config holds everything a Translator needs. Nothing is read from the
// environment at call time.
type Config struct {
	APIKey      string
	Tiers       []Tier
	Temperature float32
	Logger      *zap.Logger
}

// Translator translates between English and Nigerian Pidgin by trying each
// configured tier in order until one returns text
type Translator struct {
	apiKey      string
	tiers       []Tier
	temperature float32
	logger      *zap.Logger
}

// NewTranslator creates a new translator instance
func NewTranslator(config Config) *Translator {
	temperature := config.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tiers := make([]Tier, len(config.Tiers))
	copy(tiers, config.Tiers)

	return &Translator{
		apiKey:      config.APIKey,
		tiers:       tiers,
		temperature: temperature,
		logger:      logger,
	}
}

// Tiers returns the names of the configured tiers in call order
func (t *Translator) Tiers() []string {
	names := make([]string, len(t.tiers))
	for i, tier := range t.tiers {
		names[i] = tier.Name()
	}
	return names
}

// Translate translates text with the given tone and direction. Tiers are
// tried strictly in order, one call each, and the first non-empty answer
// wins.
func (t *Translator) Translate(ctx context.Context, text string, tone Tone, direction Direction) (string, error) {
	if t.apiKey == "" {
		return "", &ConfigurationError{Setting: "API key"}
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("text cannot be empty")
	}
	if !tone.Valid() {
		return "", fmt.Errorf("unknown tone %q", tone)
	}
	if direction == "" {
		direction = DefaultDirection
	}
	if !direction.Valid() {
		return "", fmt.Errorf("unknown direction %q", direction)
	}
	if len(t.tiers) == 0 {
		return "", fmt.Errorf("no model tiers configured")
	}

	req := Request{
		Instruction: SystemInstruction(tone, direction),
		Content:     text,
		Temperature: t.temperature,
	}

	var lastErr error
	for i, tier := range t.tiers {
		resp, err := tier.Generate(ctx, req)
		if err != nil {
			lastErr = &TierCallError{Tier: tier.Name(), Index: i, Err: err}
			t.logger.Warn("model tier failed, trying next",
				zap.String("tier", tier.Name()),
				zap.Int("index", i+1),
				zap.Error(err))
			continue
		}

		translated := strings.TrimSpace(resp.Text)
		if !resp.Present || translated == "" {
			t.logger.Warn("model tier returned no text, trying next",
				zap.String("tier", tier.Name()),
				zap.Int("index", i+1))
			continue
		}

		if i > 0 {
			t.logger.Info("translation served by fallback tier",
				zap.String("tier", tier.Name()),
				zap.Int("index", i+1))
		}
		return translated, nil
	}

	if lastErr == nil {
		lastErr = ErrServiceUnavailable
	}
	return "", &AllTiersFailedError{Attempts: len(t.tiers), Last: lastErr}
}

// IsConfigurationError reports whether err was caused by missing settings
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsExhausted reports whether err means every tier failed
func IsExhausted(err error) bool {
	var allErr *AllTiersFailedError
	return errors.As(err, &allErr)
}
