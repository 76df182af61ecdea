package fusioo

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Network", &NetworkError{Op: "GET records", Err: errors.New("refused")}, true},
		{"RateLimit", &RateLimitError{}, true},
		{"Auth", &AuthError{Status: 401}, false},
		{"Decode", &DecodeError{Op: "records", Reason: "not an array"}, false},
		{"Plain", errors.New("boom"), false},
		{"WrappedNetwork", fmt.Errorf("page 2: %w", &NetworkError{Op: "GET", Err: errors.New("reset")}), true},
		{"Nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthError_Remediation(t *testing.T) {
	err := &AuthError{Status: 403}
	msg := err.Error()
	if !strings.Contains(msg, "FUSIOO_ACCESS_TOKEN") {
		t.Errorf("AuthError %q should name the token variable", msg)
	}
	if !strings.Contains(msg, "403") {
		t.Errorf("AuthError %q should carry the status code", msg)
	}
}

func TestRateLimitError_RetryAfter(t *testing.T) {
	plain := &RateLimitError{}
	if got := plain.Error(); got != "rate limited" {
		t.Errorf("Error() = %q, want plain message", got)
	}

	hinted := &RateLimitError{RetryAfter: 2 * time.Second}
	if !strings.Contains(hinted.Error(), "2s") {
		t.Errorf("Error() = %q, should carry the wait hint", hinted.Error())
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &NetworkError{Op: "GET records", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("NetworkError should unwrap to the transport error")
	}
}
