package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestStatusError(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name   string
		status int
		header http.Header
		check  func(error) bool
	}{
		{"rate limit", 429, nil, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl) && rl.RetryAfter == 0
		}},
		{"rate limit with retry-after", 429, http.Header{"Retry-After": {"3"}}, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl) && rl.RetryAfter == 3*time.Second
		}},
		{"bad key", 401, nil, func(err error) bool {
			var rej *ErrRejected
			return errors.As(err, &rej) && rej.StatusCode == 401
		}},
		{"bad request", 400, nil, func(err error) bool {
			var rej *ErrRejected
			return errors.As(err, &rej)
		}},
		{"request timeout", 408, nil, func(err error) bool {
			var un *ErrProviderUnavailable
			return errors.As(err, &un)
		}},
		{"server error", 503, nil, func(err error) bool {
			var un *ErrProviderUnavailable
			return errors.As(err, &un)
		}},
		{"no response", 0, nil, func(err error) bool {
			var un *ErrProviderUnavailable
			return errors.As(err, &un)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusError(tt.status, tt.header, cause)
			if !tt.check(err) {
				t.Fatalf("unexpected mapping %T: %v", err, err)
			}
			if !errors.Is(err, cause) {
				t.Fatal("mapped error should wrap the cause")
			}
		})
	}
}

func TestRetryAfter_Invalid(t *testing.T) {
	for _, v := range []string{"", "soon", "-1"} {
		if d := retryAfter(http.Header{"Retry-After": {v}}); d != 0 {
			t.Errorf("retryAfter(%q) = %s, want 0", v, d)
		}
	}
}
