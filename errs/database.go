package errs

import (
	"fmt"
	"net/http"
)

// NewDatabaseError wraps a storage failure with the operation and entity for
// log context. The HTTP layer reports these as internal errors.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrInternal,
		Details:    fmt.Sprintf("%s failed for %s", operation, entity),
		Cause:      cause,
	}
}

// NewUniqueViolationError reports a duplicate slug or name rejected by a
// uniqueness constraint. Taxonomy upsert callers treat this as "already
// exists, re-fetch" rather than a hard failure.
func NewUniqueViolationError(entity, value string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrConflict,
		Details:    fmt.Sprintf("%s %q already exists", entity, value),
	}
}
