package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// MessageListOptions narrows message listing. Messages are always returned
// ordered by timestamp ascending; Limit truncates the result when positive.
type MessageListOptions struct {
	// Limit caps the number of returned messages. Zero or negative means
	// no limit.
	Limit int
}

// QuestFilter narrows quest listing for a user.
type QuestFilter struct {
	// Status restricts results to a single lifecycle state when non-empty.
	Status string
}
