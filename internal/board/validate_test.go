package board

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", ErrEmpty},
		{"only spaces", "   \n\t", ErrEmpty},
		{"two chars", "ab", ErrTooShort},
		{"two chars padded", "  ab  ", ErrTooShort},
		{"three chars", "abc", nil},
		{"three chars padded", " abc ", nil},
		{"exactly max", strings.Repeat("a", MaxLength), nil},
		{"over max", strings.Repeat("a", MaxLength+1), ErrTooLong},
		{"max with trailing spaces counts raw", strings.Repeat("a", MaxLength-1) + "  ", ErrTooLong},
		{"multibyte counted as characters", strings.Repeat("ñ", MaxLength), nil},
		{"multibyte short", "éé", ErrTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.text); !errors.Is(got, tt.want) {
				t.Fatalf("Validate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLiveValidateIgnoresEmptyDraft(t *testing.T) {
	if err := LiveValidate("   "); err != nil {
		t.Fatalf("expected no error for blank draft, got %v", err)
	}
	if err := LiveValidate("a"); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
	if err := LiveValidate(strings.Repeat("x", 501)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestValidationTexts(t *testing.T) {
	if ErrTooShort.Error() != "El mensaje debe tener al menos 3 caracteres" {
		t.Fatalf("unexpected short text %q", ErrTooShort.Error())
	}
	if ErrTooLong.Error() != "El mensaje no puede exceder 500 caracteres" {
		t.Fatalf("unexpected long text %q", ErrTooLong.Error())
	}
	if ErrEmpty.Error() != "El mensaje no puede estar vacío" {
		t.Fatalf("unexpected empty text %q", ErrEmpty.Error())
	}
}
