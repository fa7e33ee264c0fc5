package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"emiscal_backend/internals/features/calendar/schedule"
)

var (
	ErrTitleRequired = errors.New("calendar title is required")
	ErrWrongState    = errors.New("action not allowed in the current state")
	ErrOutOfRange    = errors.New("day is outside the calendar range")
	ErrDialogClosed  = errors.New("dialog is already closed")
	// ErrDraftsOutOfRange rejects a new range that would leave drafted events
	// outside the calendar.
	ErrDraftsOutOfRange = errors.New("drafted events fall outside the new range")
)

// RangeError is returned by ConfirmRange; Reason is the user-facing message.
type RangeError = schedule.RangeError

// FieldErrors maps form fields to messages; returned when a dialog is confirmed
// with invalid input.
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], ", "))
	}
	return "invalid event: " + strings.Join(parts, "; ")
}

func (fe FieldErrors) add(field, msg string) { fe[field] = append(fe[field], msg) }

// CommitError reports a save that did not complete. Nothing is rolled back:
// Succeeded drafts are persisted, Failed is the draft whose call failed and
// NotAttempted were never sent. Failed is nil when the calendar call itself
// failed (or, for atomic saves, when the batch was rejected as a whole).
type CommitError struct {
	CalendarID   *uuid.UUID
	Succeeded    []Draft
	Failed       *Draft
	NotAttempted []Draft
	Err          error
}

func (e *CommitError) Error() string {
	if e.Failed == nil {
		return fmt.Sprintf("calendar not saved, %d drafts not attempted: %v", len(e.NotAttempted), e.Err)
	}
	return fmt.Sprintf("saved %d of %d drafts; %q failed, %d not attempted: %v",
		len(e.Succeeded), len(e.Succeeded)+1+len(e.NotAttempted), e.Failed.Title(), len(e.NotAttempted), e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
