package internal

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// NewResultID creates a unique, time-ordered ID for a translation result
func NewResultID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 only fails when the random source does; fall back to v4
		return uuid.NewString()
	}
	return id.String()
}

// AudioFileName builds a file name for the speech rendering of a result
func AudioFileName(id string, created time.Time) string {
	return fmt.Sprintf("%s_%s.wav", created.Format("20060102-150405"), SanitizeFilename(id))
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is an ASCII letter or digit
func isAlphaNumeric(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
