package validator

import (
	"strings"
	"testing"
)

func TestValidateRegistrationFields(t *testing.T) {
	if err := ValidateEmail("ana@example.com"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}
	if err := ValidateEmail("not-an-email"); err != ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if err := ValidateUsername("ana_01"); err != nil {
		t.Fatalf("expected valid username, got %v", err)
	}
	if err := ValidateUsername("a b"); err != ErrInvalidUsername {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
	if err := ValidatePassword("short"); err != ErrInvalidPassword {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("p", 72)); err != nil {
		t.Fatalf("expected 72 byte password to pass, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("p", 73)); err != ErrInvalidPassword {
		t.Fatalf("expected ErrInvalidPassword for 73 bytes, got %v", err)
	}
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}

func TestAccountName(t *testing.T) {
	name, err := AccountName("  Wallet ")
	if err != nil || name != "Wallet" {
		t.Fatalf("expected trimmed name, got %q, %v", name, err)
	}
	if _, err := AccountName("   "); err != ErrAccountNameMissing {
		t.Fatalf("expected ErrAccountNameMissing, got %v", err)
	}
	if _, err := AccountName(strings.Repeat("x", 51)); err != ErrAccountNameLength {
		t.Fatalf("expected ErrAccountNameLength, got %v", err)
	}
}

func TestDescription(t *testing.T) {
	if got, err := Description(nil); got != nil || err != nil {
		t.Fatalf("expected nil, got %v, %v", got, err)
	}
	blank := "  "
	if got, err := Description(&blank); got != nil || err != nil {
		t.Fatalf("expected blank to become nil, got %v, %v", got, err)
	}
	text := " lunch "
	got, err := Description(&text)
	if err != nil || got == nil || *got != "lunch" {
		t.Fatalf("expected trimmed description, got %v, %v", got, err)
	}
	long := strings.Repeat("y", 256)
	if _, err := Description(&long); err != ErrDescriptionLength {
		t.Fatalf("expected ErrDescriptionLength, got %v", err)
	}
}
