package batch

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/pidgix/internal/translation"
)

// Entry represents one text to translate with optional per-line tone
type Entry struct {
	Line int
	Text string
	// Tone is empty when the line should use the session tone
	Tone translation.Tone
}

// ReadBatchFile reads texts from a file and returns Entry slice
// Supports formats:
// - Text only: "I will be there soon" (session tone)
// - With tone: "respectful: I will be there soon"
// - Comments: lines starting with '#' are ignored
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseBatch(string(content))
}

// ParseBatch parses batch content
func ParseBatch(content string) ([]Entry, error) {
	var entries []Entry

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := Entry{Line: i + 1, Text: line}
		if prefix, rest, found := strings.Cut(line, ":"); found {
			if tone, err := translation.ParseTone(prefix); err == nil {
				entry.Tone = tone
				entry.Text = strings.TrimSpace(rest)
			}
		}

		if entry.Text == "" {
			return nil, fmt.Errorf("line %d: no text after tone prefix", entry.Line)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
