package history

import (
	"time"

	"codeberg.org/snonux/pidgix/internal"
	"codeberg.org/snonux/pidgix/internal/translation"
)

// Result is one successful translation. It is never modified after creation.
type Result struct {
	ID         string                `json:"id"`
	Original   string                `json:"original"`
	Translated string                `json:"translated"`
	Tone       translation.Tone      `json:"tone"`
	Direction  translation.Direction `json:"direction,omitempty"` // empty means english-to-pidgin
	Timestamp  time.Time             `json:"timestamp"`
}

// NewResult builds a Result stamped with a fresh ID and the current time
func NewResult(original, translated string, tone translation.Tone, direction translation.Direction) Result {
	return Result{
		ID:         internal.NewResultID(),
		Original:   original,
		Translated: translated,
		Tone:       tone,
		Direction:  direction,
		Timestamp:  time.Now().Truncate(time.Millisecond),
	}
}

// EffectiveDirection resolves the legacy empty direction
func (r Result) EffectiveDirection() translation.Direction {
	if r.Direction == "" {
		return translation.DefaultDirection
	}
	return r.Direction
}
