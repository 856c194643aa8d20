package services

import (
	"fmt"
	"net/http"
)

// ServiceError carries the HTTP-ish status a controller should answer with,
// without the service layer producing HTTP responses itself.
type ServiceError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func newServiceError(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

func forbiddenAsNotFound(code string) *ServiceError {
	// Out-of-scope and nonexistent ids answer identically so siblings
	// cannot probe each other's subtrees.
	return newServiceError(http.StatusNotFound, code, "not found", nil)
}
