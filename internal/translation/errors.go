package translation

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse marks a tier that answered without usable text
	ErrEmptyResponse = errors.New("model returned no text")

	// ErrServiceUnavailable is surfaced when every tier answered empty
	ErrServiceUnavailable = errors.New("translation service unavailable")
)

// ConfigurationError reports a missing or invalid setting that makes any
// network attempt pointless
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is missing. Set GEMINI_API_KEY or configure it in .pidgix.yaml", e.Setting)
}

// TierCallError wraps the failure of a single model tier
type TierCallError struct {
	Tier  string
	Index int
	Err   error
}

func (e *TierCallError) Error() string {
	return fmt.Sprintf("tier %d (%s): %v", e.Index+1, e.Tier, e.Err)
}

func (e *TierCallError) Unwrap() error {
	return e.Err
}

// AllTiersFailedError is returned once the fallback chain is exhausted.
// Last is the error of the last tier that failed with an error, or
// ErrServiceUnavailable when every tier answered empty.
type AllTiersFailedError struct {
	Attempts int
	Last     error
}

func (e *AllTiersFailedError) Error() string {
	return fmt.Sprintf("all %d model tiers failed: %v", e.Attempts, e.Last)
}

func (e *AllTiersFailedError) Unwrap() error {
	return e.Last
}
