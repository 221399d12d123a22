package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks text that cannot be analyzed (bad encoding, empty request).
	ErrInvalidInput = errors.New("invalid input")
	// ErrDictionaryUnavailable marks a missing or corrupt lexicon or grammar.
	ErrDictionaryUnavailable = errors.New("dictionary unavailable")
	// ErrNoPath marks a disconnected lattice. It is a defect in OOV handling,
	// never a property of the input.
	ErrNoPath = errors.New("no path through lattice")
)

// InvalidInputError reports malformed input detected before lattice construction.
type InvalidInputError struct {
	Offset int // byte offset of the defect, -1 if not positional
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input at byte %d: %s", e.Offset, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// DictionaryUnavailableError reports an unusable dictionary collaborator.
type DictionaryUnavailableError struct {
	Name string
	Err  error
}

func (e *DictionaryUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dictionary %s unavailable", e.Name)
	}
	return fmt.Sprintf("dictionary %s unavailable: %v", e.Name, e.Err)
}

func (e *DictionaryUnavailableError) Unwrap() error { return e.Err }

func (e *DictionaryUnavailableError) Is(target error) bool {
	return target == ErrDictionaryUnavailable
}

// NoPathError reports that the end anchor could not be reached.
type NoPathError struct {
	Position int // rune offset the search could not reach
	Length   int
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path through lattice: position %d of %d unreachable", e.Position, e.Length)
}

func (e *NoPathError) Is(target error) bool { return target == ErrNoPath }
