package analysis

import "fmt"

// CallError means the collaborator could not be reached or refused the request.
type CallError struct {
	Message string
	Cause   error
}

func (e *CallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("collaborator call error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("collaborator call error: %s", e.Message)
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// ParseError means the collaborator answered with something that is not the expected JSON.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("collaborator response error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("collaborator response error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
