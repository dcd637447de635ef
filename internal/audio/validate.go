package audio

import (
	"fmt"
	"strings"
)

// ValidateText rejects input that has nothing to pronounce
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}
