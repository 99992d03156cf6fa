// Package transcript keeps the ordered prompt/result history of a chat session.
package transcript

import (
	"sync"
	"time"

	"chatbridge/pkg/chat"
)

// Turn is one submitted prompt and the result it produced.
type Turn struct {
	Prompt string      `json:"prompt"`
	Result chat.Result `json:"result"`
	At     time.Time   `json:"at"`
}

// Transcript is an append-only list of turns, oldest first.
// It is safe for concurrent use.
type Transcript struct {
	mu    sync.RWMutex
	turns []Turn
	now   func() time.Time
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{now: time.Now}
}

// Append records a turn stamped with the current time and returns it.
func (t *Transcript) Append(prompt string, result chat.Result) Turn {
	t.mu.Lock()
	defer t.mu.Unlock()

	turn := Turn{Prompt: prompt, Result: result, At: t.now()}
	t.turns = append(t.turns, turn)
	return turn
}

// Turns returns a copy of all turns in insertion order.
func (t *Transcript) Turns() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Last returns the most recent turn.
func (t *Transcript) Last() (Turn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// LastReply returns the text of the most recent successful turn.
func (t *Transcript) LastReply() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Result.IsSuccess() {
			return t.turns[i].Result.Text(), true
		}
	}
	return "", false
}
