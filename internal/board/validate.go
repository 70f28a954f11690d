package board

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// MinLength is the minimum trimmed length of a message.
	MinLength = 3
	// MaxLength is the maximum raw length of a message.
	MaxLength = 500
)

// Validation errors. Their text is shown inline under the input.
var (
	ErrEmpty    = errors.New("El mensaje no puede estar vacío")
	ErrTooShort = errors.New("El mensaje debe tener al menos 3 caracteres")
	ErrTooLong  = errors.New("El mensaje no puede exceder 500 caracteres")
)

// EditInvalidText is the single error the edit dialog shows for any failing draft.
const EditInvalidText = "El mensaje debe tener entre 3 y 500 caracteres"

// Length counts characters the way the limits are expressed: in code points.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}

// Validate checks text before it is sent. The lower bound applies to the
// trimmed text, the upper bound to the raw text.
func Validate(text string) error {
	trimmed := Length(strings.TrimSpace(text))
	switch {
	case trimmed == 0:
		return ErrEmpty
	case trimmed < MinLength:
		return ErrTooShort
	case Length(text) > MaxLength:
		return ErrTooLong
	}
	return nil
}

// LiveValidate is Validate for text still being typed: an empty draft is not an error.
func LiveValidate(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return Validate(text)
}
