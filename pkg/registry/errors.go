package registry

import "fmt"

// Status is the stable set of result codes every public registry operation
// returns. Callers across process boundaries see only this integer, never
// a Go error value.
type Status int

const (
	StatusOK Status = iota
	StatusInvalidName
	StatusInvalidToken
	StatusInvalidFile
	StatusNotAuthorized
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusInvalidName:
		return "INVALID_NAME"
	case StatusInvalidToken:
		return "INVALID_TOKEN"
	case StatusInvalidFile:
		return "INVALID_FILE"
	case StatusNotAuthorized:
		return "NOT_AUTHORIZED"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// OpError is the internal error type carried between registry helpers
// before a public method collapses it to a bare Status at the boundary;
// every public operation returns a single status code, never a Go error.
type OpError struct {
	Status   Status
	Message  string
	Name     string
	ClientID uint32
}

func (e *OpError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("%s: %s (name=%q)", e.Status, e.Message, e.Name)
	case e.ClientID != 0:
		return fmt.Sprintf("%s: %s (client_id=%d)", e.Status, e.Message, e.ClientID)
	default:
		return fmt.Sprintf("%s: %s", e.Status, e.Message)
	}
}

func errInvalidName(name string) *OpError {
	return &OpError{Status: StatusInvalidName, Message: "unknown name", Name: name}
}

func errInvalidToken(clientID uint32) *OpError {
	return &OpError{Status: StatusInvalidToken, Message: "unknown client id", ClientID: clientID}
}

func errInvalidFile(name string, cause error) *OpError {
	return &OpError{Status: StatusInvalidFile, Message: fmt.Sprintf("open failed: %v", cause), Name: name}
}

func errNotAuthorized(name string) *OpError {
	return &OpError{Status: StatusNotAuthorized, Message: "access denied", Name: name}
}

func errFailed(message string) *OpError {
	return &OpError{Status: StatusFailed, Message: message}
}

// statusOf collapses err to its Status, or StatusOK for a nil err. Any
// error that isn't an *OpError (shouldn't happen, since every internal
// helper constructs one) maps conservatively to StatusFailed.
func statusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var opErr *OpError
	if e, ok := err.(*OpError); ok {
		opErr = e
		return opErr.Status
	}
	return StatusFailed
}
