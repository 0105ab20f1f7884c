package sdconnector

import (
	"errors"
	"fmt"
	"strings"
)

// A Fault carries the code, reason and detail text of a SOAP fault returned
// by the SD service.
type Fault struct {
	Code   string
	Reason string
	Detail string
}

func (f *Fault) String() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", f.Code, f.Reason, f.Detail)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Reason)
}

// isAuthentication reports whether the fault reason indicates rejected
// credentials rather than a bad request.
func (f *Fault) isAuthentication() bool {
	reason := strings.ToLower(f.Reason + " " + f.Detail)
	for _, marker := range []string{"auth", "credential", "password", "login", "access denied"} {
		if strings.Contains(reason, marker) {
			return true
		}
	}
	return false
}

// ConnectionError reports that the SD service could not be reached or did
// not produce a usable reply: transport failures, timeouts and unexpected
// HTTP statuses without a SOAP fault. Connection errors are the only kind
// the retry policy considers retryable.
type ConnectionError struct {
	Operation string
	Err       error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("sd: %s: connection failed: %v", e.Operation, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// AuthenticationError reports that SD rejected the supplied credentials,
// either with an HTTP 401/403 or with an authentication fault.
type AuthenticationError struct {
	Operation  string
	StatusCode int
	Fault      *Fault
}

func (e *AuthenticationError) Error() string {
	if e.Fault != nil {
		return fmt.Sprintf("sd: %s: authentication rejected: %s", e.Operation, e.Fault)
	}
	return fmt.Sprintf("sd: %s: authentication rejected (status %d)", e.Operation, e.StatusCode)
}

// ResponseParseError reports that the SD service answered, but with
// something that cannot be shaped into the expected result: a body that is
// not a SOAP envelope, an envelope missing the response element, or a
// non-authentication SOAP fault.
type ResponseParseError struct {
	Operation string
	Fault     *Fault
	Err       error
}

func (e *ResponseParseError) Error() string {
	switch {
	case e.Fault != nil:
		return fmt.Sprintf("sd: %s: service fault: %s", e.Operation, e.Fault)
	case e.Err != nil:
		return fmt.Sprintf("sd: %s: unparseable response: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("sd: %s: unparseable response", e.Operation)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is worth retrying. Authentication and
// parse failures are deterministic and excluded.
func IsRetryable(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
