package chat

import "encoding/json"

// FailureKind classifies a failed completion for diagnostics only.
type FailureKind string

const (
	FailureTransport       FailureKind = "transport"
	FailureAuth            FailureKind = "auth"
	FailureEmptyCompletion FailureKind = "empty_completion"
	FailureUnexpected      FailureKind = "unexpected"
)

const (
	// NoResponseMessage is returned when the model answered without usable content.
	NoResponseMessage = "No response received from the model."
	// FallbackErrorMessage is used when an error carries no description.
	FallbackErrorMessage = "An unexpected error occurred."
)

// Result is the outcome of one completion: either a success with the reply
// text or a failure with a human-readable message. Build it with Succeeded
// or Failed; the zero value is neither.
type Result struct {
	ok      bool
	text    string
	message string
	kind    FailureKind
}

// Succeeded returns a successful Result carrying text.
func Succeeded(text string) Result {
	return Result{ok: true, text: text}
}

// Failed returns a failed Result. An empty message is replaced by FallbackErrorMessage.
func Failed(kind FailureKind, message string) Result {
	if message == "" {
		message = FallbackErrorMessage
	}
	if kind == "" {
		kind = FailureUnexpected
	}
	return Result{message: message, kind: kind}
}

// IsSuccess reports whether the Result holds a reply.
func (r Result) IsSuccess() bool { return r.ok }

// IsFailure reports whether the Result holds a failure message.
func (r Result) IsFailure() bool { return !r.ok && r.message != "" }

// Text returns the reply text of a successful Result.
func (r Result) Text() string { return r.text }

// Message returns the failure message of a failed Result.
func (r Result) Message() string { return r.message }

// Kind returns the failure classification, empty for a success.
func (r Result) Kind() FailureKind { return r.kind }

// Display returns what a UI should show in place of the assistant reply.
func (r Result) Display() string {
	if r.ok {
		return r.text
	}
	return r.message
}

type resultJSON struct {
	Response *string     `json:"response,omitempty"`
	Error    *string     `json:"error,omitempty"`
	Kind     FailureKind `json:"kind,omitempty"`
}

// MarshalJSON encodes a success as {"response": ...} and a failure as {"error": ..., "kind": ...}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.ok {
		text := r.text
		return json.Marshal(resultJSON{Response: &text})
	}
	message := r.message
	return json.Marshal(resultJSON{Error: &message, Kind: r.kind})
}
