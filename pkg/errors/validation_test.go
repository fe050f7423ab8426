package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Fver", false},
		{"with underscore", "Homo_sapiens", false},
		{"with space", "Homo sapiens", false},
		{"unicode", "Bufo_bufo_ü", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateLabel(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateLabels(t *testing.T) {
	if err := ValidateLabels([]string{"A", "B", "C"}); err != nil {
		t.Errorf("ValidateLabels() unexpected error: %v", err)
	}
	if err := ValidateLabels([]string{"A", "B", "A"}); err == nil {
		t.Error("ValidateLabels() should reject duplicates")
	}
	if err := ValidateLabels([]string{"A", ""}); err == nil {
		t.Error("ValidateLabels() should reject empty labels")
	}
}
