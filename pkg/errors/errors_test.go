package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrCodeInstall, cause, "install requirements")

	if err.Code != ErrCodeInstall {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInstall)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INSTALL: install requirements: exit status 1"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
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
			err:      New(ErrCodeBuild, "test"),
			code:     ErrCodeBuild,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeBuild, "test"),
			code:     ErrCodePublish,
			expected: false,
		},
		{
			name:     "outer code",
			err:      Wrap(ErrCodeIO, New(ErrCodeInstall, "inner"), "outer"),
			code:     ErrCodeIO,
			expected: true,
		},
		{
			name:     "inner code",
			err:      Wrap(ErrCodeIO, New(ErrCodeInstall, "inner"), "outer"),
			code:     ErrCodeInstall,
			expected: true,
		},
		{
			name:     "behind fmt wrapping",
			err:      fmt.Errorf("prepare: %w", New(ErrCodePublish, "rename")),
			code:     ErrCodePublish,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeIO,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeIO,
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
		{
			name:     "Error type",
			err:      New(ErrCodeBuilderMissing, "test"),
			expected: ErrCodeBuilderMissing,
		},
		{
			name:     "outermost wins",
			err:      Wrap(ErrCodeIO, New(ErrCodeInstall, "inner"), "outer"),
			expected: ErrCodeIO,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
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
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "chain",
			err:      Wrap(ErrCodeInstall, errors.New("exit status 2"), "install requirements"),
			expected: "install requirements: exit status 2",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3}
	if err.Error() != "process exited with status 3" {
		t.Errorf("Error() = %q", err.Error())
	}

	var exit *ExitError
	if !errors.As(fmt.Errorf("run: %w", err), &exit) || exit.Code != 3 {
		t.Error("errors.As should find wrapped ExitError")
	}
}
