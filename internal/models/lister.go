package models

import (
	"context"
	"fmt"
	"io"
	"iter"
	"slices"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// modelSource is the part of *genai.Models used by Lister
type modelSource interface {
	All(ctx context.Context) iter.Seq2[*genai.Model, error]
}

// Lister handles listing available Gemini models
type Lister struct {
	apiKey string
	source modelSource
	out    io.Writer
}

// NewLister creates a new model lister writing to out
func NewLister(ctx context.Context, apiKey string, out io.Writer) (*Lister, error) {
	l := &Lister{apiKey: apiKey, out: out}
	if apiKey == "" {
		return l, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	l.source = client.Models
	return l, nil
}

// Catalog holds model IDs grouped by what they can do
type Catalog struct {
	Speech []string
	Text   []string
}

// Fetch collects the available models
func (l *Lister) Fetch(ctx context.Context) (*Catalog, error) {
	if l.apiKey == "" || l.source == nil {
		return nil, fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY environment variable or configure in .pidgix.yaml")
	}

	catalog := &Catalog{}
	for model, err := range l.source.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}

		id := strings.TrimPrefix(model.Name, "models/")
		if !slices.Contains(model.SupportedActions, "generateContent") {
			continue
		}
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") {
			catalog.Speech = append(catalog.Speech, id)
		} else {
			catalog.Text = append(catalog.Text, id)
		}
	}

	sort.Strings(catalog.Speech)
	sort.Strings(catalog.Text)
	return catalog, nil
}

// ListAvailableModels prints the available models and marks configured tiers
func (l *Lister) ListAvailableModels(ctx context.Context, tiers []string) error {
	catalog, err := l.Fetch(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(l.out, "Translation tiers (tried in order):")
	for i, tier := range tiers {
		status := "available"
		if !strings.HasPrefix(tier, "openai:") && !slices.Contains(catalog.Text, tier) {
			status = "NOT AVAILABLE for this key"
		}
		fmt.Fprintf(l.out, "  %d. %s (%s)\n", i+1, tier, status)
	}

	fmt.Fprintln(l.out, "\nText-to-Speech Models:")
	if len(catalog.Speech) == 0 {
		fmt.Fprintln(l.out, "  No TTS models found")
	}
	for _, model := range catalog.Speech {
		fmt.Fprintf(l.out, "  %s\n", model)
	}

	fmt.Fprintln(l.out, "\nText Generation Models:")
	if len(catalog.Text) == 0 {
		fmt.Fprintln(l.out, "  No text models found")
	}
	for _, model := range catalog.Text {
		fmt.Fprintf(l.out, "  %s\n", model)
	}

	return nil
}
