package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// NewMirrorError wraps a failed git working-copy operation (pull, commit,
// push, clone). Callers decide whether to propagate or swallow: sync flows
// report it in the per-post outcome, write-back flows log and continue.
func NewMirrorError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrMirrorOperation,
		Details:    fmt.Sprintf("git %s failed", operation),
		Cause:      cause,
	}
}

// NewDocumentNotFoundError reports a markdown document missing from the
// mirror. Sync flows treat this as a skip, creation flows as bad input.
func NewDocumentNotFoundError(slug, expectedPath string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrDocumentNotFound,
		Details:    fmt.Sprintf("no document for slug %q (expected %s)", slug, expectedPath),
	}
}

func IsMirrorError(err error) bool {
	return errors.Is(err, ErrMirrorOperation)
}

func IsDocumentNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}
