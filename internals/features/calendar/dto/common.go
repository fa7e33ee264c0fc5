// file: internals/features/calendar/dto/common.go
package dto

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"emiscal_backend/internals/features/calendar/schedule"
	"emiscal_backend/internals/helpers/dbtime"
)

/* =========================================================
   Shared helpers
   ========================================================= */

var reHexFull = regexp.MustCompile(`^(?i)#?[0-9a-f]{6}$`) // #RRGGBB

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// NormalizeName trims, collapses inner whitespace and applies NFC so that
// visually identical names compare equal.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// normalizeHex turns "ffaabb" / "#ffaabb" into "#FFAABB"; anything else is
// returned trimmed so validation can reject it.
func normalizeHex(s string) string {
	v := strings.TrimSpace(s)
	if !reHexFull.MatchString(v) {
		return v
	}
	return "#" + strings.ToUpper(strings.TrimPrefix(v, "#"))
}

// FieldError is a rejected request field that validator tags cannot express.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field string, err error) error { return &FieldError{Field: field, Err: err} }

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fieldErr(field, err)
	}
	return id, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := schedule.ParseDate(s)
	if err != nil {
		return time.Time{}, fieldErr(field, err)
	}
	return t, nil
}

func parseTod(field, s string) (dbtime.Tod, error) {
	t, err := dbtime.Parse(s)
	if err != nil {
		return dbtime.Tod{}, fieldErr(field, err)
	}
	return t, nil
}

/* =========================================================
   PatchField (tri-state): absent | null | value
   ========================================================= */

type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

// Set marks the field present with v.
func Set[T any](v T) PatchField[T] { return PatchField[T]{Present: true, Value: &v} }

// Null marks the field present and null.
func Null[T any]() PatchField[T] { return PatchField[T]{Present: true} }
