package validation

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "warbler_fan", false},
		{"valid with hyphen", "war-bler", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 31), true},
		{"invalid characters", "war bler!", true},
		{"leading underscore", "_warbler", true},
		{"trailing hyphen", "warbler-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("test@test.com"); err != nil {
		t.Errorf("expected valid email, got %v", err)
	}
	if err := ValidateEmail("not-an-email"); err == nil {
		t.Error("expected error for malformed email")
	}
	if err := ValidateEmail("a@b." + strings.Repeat("c", 260)); err == nil {
		t.Error("expected error for oversized email")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected error for password under 6 characters")
	}
	if err := ValidatePassword("password"); err != nil {
		t.Errorf("expected valid password, got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("x", 129)); err == nil {
		t.Error("expected error for oversized password")
	}
}

func TestValidateMessageText(t *testing.T) {
	if err := ValidateMessageText(""); err == nil {
		t.Error("expected error for empty text")
	}
	if err := ValidateMessageText(strings.Repeat("w", 140)); err != nil {
		t.Errorf("expected 140 characters to be allowed, got %v", err)
	}
	if err := ValidateMessageText(strings.Repeat("w", 141)); err == nil {
		t.Error("expected error for 141 characters")
	}
	// Multibyte text is measured in characters, not bytes.
	if err := ValidateMessageText(strings.Repeat("ü", 140)); err != nil {
		t.Errorf("expected 140 multibyte characters to be allowed, got %v", err)
	}
	if err := ValidateMessageText(strings.Repeat("ü", 141)); err == nil {
		t.Error("expected error for 141 multibyte characters")
	}
}
