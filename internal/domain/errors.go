package domain

import "errors"

var (
	// ErrEmptyQuery signals a search request without query text.
	ErrEmptyQuery = errors.New("query text is empty")
	// ErrNotFound signals a missing prompt record.
	ErrNotFound = errors.New("prompt not found")
	// ErrAlreadyExists signals a duplicate prompt record.
	ErrAlreadyExists = errors.New("prompt already exists")
	// ErrInvalidQuery signals malformed search parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidPrompt signals a malformed prompt record.
	ErrInvalidPrompt = errors.New("invalid prompt")
)
