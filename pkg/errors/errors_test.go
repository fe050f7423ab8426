package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownTip, "tip %q not in tree", "Fver")

	if err.Code != ErrCodeUnknownTip {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownTip)
	}

	if err.Message != `tip "Fver" not in tree` {
		t.Errorf("Message = %v, want %v", err.Message, `tip "Fver" not in tree`)
	}

	expected := `UNKNOWN_TIP: tip "Fver" not in tree`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := &SyntaxError{Line: 2, Column: 7, Msg: "unbalanced brackets"}
	err := Wrap(ErrCodeSyntax, cause, "parse newick")

	if err.Code != ErrCodeSyntax {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSyntax)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatal("errors.As(err, *SyntaxError) = false, want true")
	}
	if se.Line != 2 || se.Column != 7 {
		t.Errorf("position = %d:%d, want 2:7", se.Line, se.Column)
	}

	expected := "SYNTAX_ERROR: parse newick: line 2, column 7: unbalanced brackets"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeMissingLengths, "test"),
			code:     ErrCodeMissingLengths,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeMissingLengths, "test"),
			code:     ErrCodeMalformedTopology,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeUnknownTip, "inner"), "outer"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeAmbiguousMatch, "test"), ErrCodeAmbiguousMatch},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
		{
			"syntax cause",
			Wrap(ErrCodeSyntax, &SyntaxError{Line: 1, Column: 9, Msg: "missing ';'"}, "invalid newick"),
			"invalid newick: line 1, column 9: missing ';'",
		},
		{"other cause", Wrap(ErrCodeInternal, errors.New("disk full"), "write failed"), "write failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
