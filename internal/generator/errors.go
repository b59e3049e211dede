package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"google.golang.org/genai"
)

// ErrEmptyResponse means the call succeeded but carried no text. It has no
// status code, so it is retried and consumes an attempt.
var ErrEmptyResponse = errors.New("empty response from model")

// StatusError is a remote failure with an explicit HTTP-style status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.Code, e.Message)
}

// StatusCode returns the explicit status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) && se.Code != 0 {
		return se.Code, true
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Code != 0 {
		return apiErrPtr.Code, true
	}
	return 0, false
}

// transientSignatures are substrings of transport failures worth retrying
// even when a status code is attached.
var transientSignatures = []string{
	"connection reset",
	"connection refused",
	"broken pipe",
	"unexpected eof",
	"fetch failed",
	"network",
	"timeout",
	"temporarily unavailable",
	"unavailable",
	"deadline_exceeded",
	"econnreset",
	"etimedout",
}

// IsTransient reports whether err looks like a transport hiccup.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// IsRetryable classifies a failed attempt. Retryable: no status code at
// all, a 5xx status, or a transient transport signature. Everything else,
// and any context cancellation, is terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	code, ok := StatusCode(err)
	if !ok {
		return true
	}
	if code >= 500 && code <= 599 {
		return true
	}
	return IsTransient(err)
}
