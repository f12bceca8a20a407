// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across pipeline stages.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for linear backoff between
// download attempts. Tests override this to avoid real sleeps.
var RetryBaseDelay = 5 * time.Second

const defaultMaxRetries = 3

// IsTimeout reports whether err is a network timeout, either from the
// transport or from an expired context.
func IsTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// DoWithRetry executes an HTTP request and retries on transport errors,
// timeouts, and HTTP 429 with linearly increasing backoff: the wait after
// attempt n is n*RetryBaseDelay (5 s, 10 s, 15 s).
//
// When maxRetries is 0 the default (3) is used. Non-429 HTTP status codes
// are returned as-is for the caller to inspect. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last attempt's error is returned.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil {
			if resp.StatusCode != http.StatusTooManyRequests {
				return resp, nil
			}
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = &StatusError{Code: resp.StatusCode}
		} else {
			lastErr = err
		}

		if attempt == maxRetries {
			break
		}

		backoff := time.Duration(attempt) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}

// StatusError reports a non-success HTTP status that exhausted retries.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}
