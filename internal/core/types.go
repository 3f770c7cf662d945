package core

import "time"

const (
	ServiceName = "llamagate"
	Version     = "0.1.0"
)

// DayFormat is the calendar-date partition key format used by the
// history store and the by-date query endpoint.
const DayFormat = "2006-01-02"

// Turn is a single user input / model output exchange within a session.
// Turns are immutable once written; the store is append-only.
type Turn struct {
	SessionID string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Day       string    `json:"day"`
	Input     string    `json:"user"`
	Output    string    `json:"assistant"`
}

// NewTurn stamps a turn with the current instant. Day is always derived
// from the timestamp here, never accepted from a caller.
func NewTurn(sessionID, input, output string) Turn {
	now := time.Now().UTC()
	return Turn{
		SessionID: sessionID,
		Timestamp: now,
		Day:       now.Format(DayFormat),
		Input:     input,
		Output:    output,
	}
}

// User is a registered account. The password field holds the encoded
// argon2id hash, never the plaintext.
type User struct {
	ID       int64  `json:"-"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}
