package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"contactmanager/errs"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *errs.Error
		expected string
	}{
		{
			name:     "not found error",
			err:      &errs.Error{Code: errs.ENOTFOUND, Message: "Contact not found"},
			expected: "application error: code=not_found message=Contact not found",
		},
		{
			name:     "empty message",
			err:      &errs.Error{Code: errs.EINTERNAL},
			expected: "application error: code=internal message=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error returns empty string", err: nil, expected: ""},
		{name: "application error returns its code", err: errs.Errorf(errs.EUNAUTHORIZED, "Not authorized"), expected: errs.EUNAUTHORIZED},
		{name: "too many requests", err: errs.Errorf(errs.ETOOMANYREQUESTS, "locked"), expected: errs.ETOOMANYREQUESTS},
		{name: "non-application error returns EINTERNAL", err: errors.New("connection reset"), expected: errs.EINTERNAL},
		{name: "joined application error", err: errors.Join(errs.Errorf(errs.EINVALID, "bad request")), expected: errs.EINVALID},
		{name: "wrapped application error", err: fmt.Errorf("update: %w", errs.Errorf(errs.ENOTFOUND, "gone")), expected: errs.ENOTFOUND},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errs.ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error returns empty string", err: nil, expected: ""},
		{name: "application error returns its message", err: errs.Errorf(errs.EINVALID, "Name is required"), expected: "Name is required"},
		{name: "non-application error is masked", err: errors.New("pq: relation does not exist"), expected: "Internal error."},
		{name: "wrapped application error", err: fmt.Errorf("store: %w", errs.Errorf(errs.ECONFLICT, "User already exists")), expected: "User already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errs.ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorf(t *testing.T) {
	err := errs.Errorf(errs.ENOTFOUND, "contact %s not found", "abc")

	if err.Code != errs.ENOTFOUND {
		t.Errorf("Errorf().Code = %q, want %q", err.Code, errs.ENOTFOUND)
	}
	if err.Message != "contact abc not found" {
		t.Errorf("Errorf().Message = %q", err.Message)
	}
	if !errors.Is(fmt.Errorf("wrap: %w", err), err) {
		t.Error("wrapped sentinel should match with errors.Is")
	}
}

func TestErrorCodes(t *testing.T) {
	expected := map[string]string{
		errs.ECONFLICT:        "conflict",
		errs.EINTERNAL:        "internal",
		errs.EINVALID:         "invalid",
		errs.ENOTFOUND:        "not_found",
		errs.ENOTIMPLEMENTED:  "not_implemented",
		errs.EUNAUTHORIZED:    "unauthorized",
		errs.ETOOMANYREQUESTS: "too_many_requests",
	}

	for code, want := range expected {
		if code != want {
			t.Errorf("code = %q, want %q", code, want)
		}
	}
}
