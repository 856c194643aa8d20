package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tanzim-io/tanzim/modules/content/domain/target"
	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
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
	// cannot probe each other's content.
	return newServiceError(http.StatusNotFound, code, "not found", nil)
}

// mapTargetError turns target validation failures into caller-facing
// statuses. Inconsistent ancestors are rejected, never corrected silently.
func mapTargetError(err error) error {
	switch {
	case errors.Is(err, target.ErrEmptyTarget):
		return newServiceError(http.StatusBadRequest, "CONTENT_TARGET_EMPTY", "at least one target must be set", err)
	case errors.Is(err, target.ErrInconsistentTarget):
		return newServiceError(http.StatusUnprocessableEntity, "CONTENT_TARGET_INCONSISTENT", "target ancestors do not match the derived chain", err)
	case errors.Is(err, tree.ErrNotFound):
		return newServiceError(http.StatusNotFound, "CONTENT_TARGET_NOT_FOUND", "target node not found", err)
	default:
		return err
	}
}
