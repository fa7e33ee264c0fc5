package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is a non-2xx answer from the API.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api: %d %s: %s %v", e.Status, e.Code, e.Message, e.Fields)
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

func asAPIError(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}

func IsNotFound(err error) bool {
	ae, ok := asAPIError(err)
	return ok && ae.Status == http.StatusNotFound
}

// IsValidation reports a 422 answer; its field messages are in Fields.
func IsValidation(err error) bool {
	ae, ok := asAPIError(err)
	return ok && ae.Status == http.StatusUnprocessableEntity
}
