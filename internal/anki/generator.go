package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/pidgix/internal/history"
)

// Card represents a single Anki flashcard
type Card struct {
	Front     string // The source phrase
	Back      string // The translation
	AudioFile string // Optional path to a speech rendering of Back
	Tags      []string
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "pidgix_anki.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// Cards returns the collected cards
func (g *Generator) Cards() []Card {
	return g.cards
}

// AddResults turns history entries into cards. audioDir, when set, is
// searched for speech files named after each entry's ID.
func (g *Generator) AddResults(results []history.Result, audioDir string) {
	for _, r := range results {
		card := Card{
			Front: r.Original,
			Back:  r.Translated,
			Tags:  []string{"pidgix", string(r.Tone), string(r.EffectiveDirection())},
		}
		if audioDir != "" {
			if matches, _ := filepath.Glob(filepath.Join(audioDir, "*_"+r.ID+".wav")); len(matches) > 0 {
				card.AudioFile = matches[0]
			}
		}
		g.AddCard(card)
	}
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	if dir := filepath.Dir(g.options.OutputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		if err := writer.Write([]string{"Front", "Back", "Audio", "Tags"}); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Front,
			card.Back,
			formatAudioField(card.AudioFile),
			strings.Join(card.Tags, " "),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatAudioField formats the audio file reference for Anki
func formatAudioField(audioFile string) string {
	if audioFile == "" {
		return ""
	}
	// Anki audio format: [sound:filename.wav]
	return fmt.Sprintf("[sound:%s]", filepath.Base(audioFile))
}

// Stats returns the number of cards and how many carry audio
func (g *Generator) Stats() (totalCards, withAudio int) {
	for _, card := range g.cards {
		totalCards++
		if card.AudioFile != "" {
			withAudio++
		}
	}
	return totalCards, withAudio
}
