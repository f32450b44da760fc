// README: Email job lifecycle types for the dispatch queue.
package maildispatch

import (
	"time"

	"taxibordeaux/internal/types"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

type Status string

const (
	StatusQueued Status = "queued"
	StatusRetry  Status = "retry"
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Message is the payload handed to Enqueue. Text may be empty; a plain-text
// body is then derived from the HTML at delivery time.
type Message struct {
	To       []string
	Subject  string
	HTML     string
	Text     string
	Template string
}

// Job tracks one email through the queue. Only the worker mutates it after
// submission; sent and failed are terminal.
type Job struct {
	ID            types.ID
	Message       Message
	Priority      Priority
	Attempts      int
	MaxAttempts   int
	Status        Status
	CreatedAt     time.Time
	NotBefore     time.Time
	LastAttemptAt time.Time
	LastError     string
}

// Outbound is the wire shape handed to the email provider.
type Outbound struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
	Headers map[string]string
}

type Stats struct {
	Queued     int   `json:"queued"`
	Retrying   int   `json:"retrying"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Depth      int   `json:"depth"`
	Processing bool  `json:"processing"`
}
