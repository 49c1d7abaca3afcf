package remote

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening on the address
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-200 status code
	ErrTypeHTTP
	// ErrTypeParse indicates a response that is not a promodeck page
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every Client operation
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int // HTTP status code, if any
	Err        error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify turns a transport error into an Error. The net errors are found
// through the *url.Error chain http.Client returns.
func classify(message string, err error) *Error {
	e := &Error{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case os.IsTimeout(err):
		e.Type = ErrTypeTimeout
	case errors.As(err, &dnsErr):
		e.Type = ErrTypeDNS
		e.Retryable = false
	case errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED):
		e.Type = ErrTypeConnectionRefused
	}
	return e
}

func newHTTPError(statusCode int, message string) *Error {
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= http.StatusInternalServerError,
	}
}

func newParseError(message string, err error) *Error {
	return &Error{Type: ErrTypeParse, Message: message, Err: err}
}

// IsRetryable reports whether err is worth another attempt
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// Troubleshooting returns a one-line summary of err and the steps worth
// trying, for error boxes
func Troubleshooting(err error) (summary string, tips []string) {
	var e *Error
	if !errors.As(err, &e) {
		return "An unexpected error occurred. Please try again.", nil
	}

	switch e.Type {
	case ErrTypeTimeout:
		return "The page did not respond in time.", []string{
			"Check that 'promodeck serve' is still running",
			"Try increasing --timeout",
		}
	case ErrTypeConnectionRefused:
		return "Nothing is listening on that address.", []string{
			"Verify the port number (default is 8080)",
			"A page started with --host 127.0.0.1 is only reachable locally",
		}
	case ErrTypeDNS:
		return "Could not resolve the hostname.", []string{
			"Use the IP address instead of the hostname",
			"Run 'promodeck discover --plain' to list pages with their URLs",
		}
	case ErrTypeHTTP:
		if e.StatusCode == http.StatusNotFound {
			return "The server answered but is not a promodeck page.", nil
		}
		return fmt.Sprintf("The page returned HTTP error %d.", e.StatusCode), nil
	case ErrTypeParse:
		return "The response was not a promodeck catalog. Check the URL.", nil
	default:
		return "Network communication failed.", []string{
			"Check your network connection",
			"Ensure you're on the same network as the page",
		}
	}
}

// TroubleshootingHint returns user-facing advice for err as plain text
func TroubleshootingHint(err error) string {
	summary, tips := Troubleshooting(err)
	if len(tips) == 0 {
		return summary
	}
	lines := []string{summary, "Troubleshooting:"}
	for _, tip := range tips {
		lines = append(lines, "  • "+tip)
	}
	return strings.Join(lines, "\n")
}
