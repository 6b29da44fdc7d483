package model

import "time"

// Record represents a single decoded log line. Records are immutable after
// construction and shared read-only between the full set and filtered views.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	Level      string    `json:"level"`      // Error, Warning, Information, Verbose, Debug — or verbatim tag
	Module     string    `json:"module"`     // producer identifier
	ThreadID   int       `json:"threadId"`   // originating goroutine/thread
	Context    string    `json:"context"`    // may be empty
	Message    string    `json:"message"`    // payload, arbitrary characters
	RawLine    string    `json:"rawLine"`    // original unparsed text, kept for diagnostics
	LineNumber int       `json:"lineNumber"` // 1-based position in the source file
}
