package calories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — для клиента нет снимка (нет клиента, веса или цели)
	ErrNotFound = errors.New("insufficient data")
	// ErrInvalidInput matches every *InputError via errors.Is.
	ErrInvalidInput = errors.New("invalid input")
)

// InputError describes a calculator argument that cannot produce a meaningful result.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, message string) error {
	return &InputError{Field: field, Message: message}
}
