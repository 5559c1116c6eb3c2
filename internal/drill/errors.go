package drill

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced user, word, topic or question does not exist.
	ErrNotFound = errors.New("drill: not found")

	// ErrUserNotFound is returned when a user ID does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
	// ErrWordNotFound is returned when a word ID does not exist.
	ErrWordNotFound = fmt.Errorf("%w: word", ErrNotFound)
	// ErrTopicNotFound is returned when a grammar topic ID does not exist.
	ErrTopicNotFound = fmt.Errorf("%w: grammar topic", ErrNotFound)
	// ErrQuestionNotFound is returned when a grammar question ID does not exist.
	ErrQuestionNotFound = fmt.Errorf("%w: grammar question", ErrNotFound)

	// ErrValidation is returned for caller-supplied data that is rejected before
	// anything is written.
	ErrValidation = errors.New("drill: validation failed")

	// ErrStoreUnavailable is returned when the store cannot answer a query at all,
	// typically because the schema or the reference data was never loaded.
	ErrStoreUnavailable = errors.New("drill: store unavailable, load reference data first (vocabdrill import)")
)
