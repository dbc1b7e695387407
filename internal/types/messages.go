package types

import "time"

// SuggestionsMsg carries the result of an asynchronous suggestion fetch
// back to the field that issued it.
type SuggestionsMsg struct {
	FieldID string
	Seq     uint64
	Query   string
	Items   []string
	Err     error
}

// CandidatesReloadedMsg is sent when the candidates file changed on disk.
type CandidatesReloadedMsg struct {
	Items []string
}

// StatusMsg represents a status message to be displayed in the UI
type StatusMsg struct {
	Message  string
	Duration time.Duration
}

// StatusExpiredMsg clears a status message once its duration has passed.
type StatusExpiredMsg struct {
	ID int
}
