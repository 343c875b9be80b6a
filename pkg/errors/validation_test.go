package errors

import (
	"strings"
	"testing"
)

func TestValidateFingerprint(t *testing.T) {
	valid := strings.Repeat("ab", 28)

	tests := []struct {
		name    string
		fp      string
		wantErr bool
	}{
		{"valid", valid, false},
		{"empty", "", true},
		{"too short", "abc123", true},
		{"too long", valid + "0", true},
		{"uppercase", strings.ToUpper(valid), true},
		{"traversal", "../" + valid[3:], true},
		{"tmp dir", "tmp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFingerprint(tt.fp)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFingerprint(%q) error = %v, wantErr %v", tt.fp, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateExecutableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "pytest", false},
		{"dotted", "python3.12", false},
		{"dashed", "black-macchiato", false},
		{"empty", "", true},
		{"slash", "../bin/sh", true},
		{"absolute", "/bin/sh", true},
		{"backslash", `..\sh`, true},
		{"dotdot", "..", true},
		{"dot", ".", true},
		{"control", "py\x00test", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExecutableName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExecutableName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
