// Package builder drives calendar construction: pick a date range, author
// event drafts day by day, then commit everything in one Save.
package builder

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"emiscal_backend/internals/dashboard/api"
	"emiscal_backend/internals/dashboard/monthgrid"
	"emiscal_backend/internals/dashboard/notify"
	"emiscal_backend/internals/features/calendar/schedule"
)

// Backend is the slice of the API the workflow talks to; *api.Client satisfies it.
type Backend interface {
	ListCategories(ctx context.Context) ([]api.Category, error)
	ListEvents(ctx context.Context, f api.EventFilter) ([]api.Event, error)
	GetCalendar(ctx context.Context, id uuid.UUID) (api.Calendar, error)
	CreateCalendar(ctx context.Context, in api.CalendarInput) (api.Calendar, error)
	UpdateCalendar(ctx context.Context, id uuid.UUID, in api.CalendarInput) (api.Calendar, error)
	CreateEvent(ctx context.Context, in api.EventInput) (api.Event, error)
	LinkEvent(ctx context.Context, id uuid.UUID, calendarID *uuid.UUID) (api.Event, error)
	BuildCalendar(ctx context.Context, req api.BuildRequest) (api.BuildResult, error)
}

type State int

const (
	CollectingRange State = iota
	AuthoringEvents
	Saved
)

func (s State) String() string {
	switch s {
	case CollectingRange:
		return "collecting_range"
	case AuthoringEvents:
		return "authoring_events"
	case Saved:
		return "saved"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Option func(*Workflow)

// WithNotifier sets where save toasts go; the default logs them.
func WithNotifier(n notify.Notifier) Option { return func(w *Workflow) { w.notifier = n } }

// WithAtomicSave commits the calendar and every draft in one buildCalendar call.
func WithAtomicSave() Option { return func(w *Workflow) { w.atomic = true } }

func WithWeekStart(d time.Weekday) Option {
	return func(w *Workflow) { w.grid.WeekStart = d }
}

type Workflow struct {
	backend  Backend
	notifier notify.Notifier
	grid     monthgrid.Options
	atomic   bool

	state      State
	calendarID *uuid.UUID
	title      string
	start, end time.Time
	drafts     []Draft
	nextID     int
}

// New starts a workflow for a new calendar.
func New(backend Backend, opts ...Option) *Workflow {
	w := &Workflow{backend: backend, notifier: notify.Log{}}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Open starts a workflow editing calendar id: title and range are loaded and
// authoring begins with an empty draft list.
func Open(ctx context.Context, backend Backend, id uuid.UUID, opts ...Option) (*Workflow, error) {
	cal, err := backend.GetCalendar(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "load calendar")
	}
	w := New(backend, opts...)
	w.calendarID = &cal.ID
	w.title = cal.Title
	w.start, w.end = cal.StartDate.Time, cal.EndDate.Time
	w.state = AuthoringEvents
	return w, nil
}

func (w *Workflow) State() State      { return w.state }
func (w *Workflow) Title() string     { return w.title }
func (w *Workflow) SetTitle(s string) { w.title = s }

// CalendarID is set in edit mode and once a save has created the calendar.
func (w *Workflow) CalendarID() *uuid.UUID { return w.calendarID }

func (w *Workflow) Range() (start, end time.Time) { return w.start, w.end }

// ConfirmRange accepts start..end and moves to authoring. While authoring it
// may be called again to change the range, as long as every new-event draft
// still fits. A rejected range returns *RangeError or ErrDraftsOutOfRange and
// leaves the workflow untouched.
func (w *Workflow) ConfirmRange(start, end time.Time) error {
	if w.state == Saved {
		return ErrWrongState
	}
	if err := schedule.ValidateCalendarRange(start, end); err != nil {
		return err
	}
	start, end = schedule.Day(start), schedule.Day(end)
	var outside []string
	for _, d := range w.drafts {
		if d.New != nil && !within(d.New.Schedule, start, end) {
			outside = append(outside, d.Title())
		}
	}
	if len(outside) > 0 {
		return errors.Wrapf(ErrDraftsOutOfRange, "remove %s first", strings.Join(outside, ", "))
	}
	w.start, w.end = start, end
	w.state = AuthoringEvents
	return nil
}

// within reports whether every day of s lies in start..end.
func within(s schedule.Schedule, start, end time.Time) bool {
	return !s.StartDate().Before(start) && !s.EndDate().After(end)
}

// Months is the month grid for the confirmed range, nil before that.
func (w *Workflow) Months() []monthgrid.Month {
	if w.state != AuthoringEvents {
		return nil
	}
	return monthgrid.Months(w.start, w.end, w.grid)
}

func (w *Workflow) inRange(day time.Time) bool {
	d := schedule.Day(day)
	return !d.Before(w.start) && !d.After(w.end)
}

// OpenDay loads categories and unlinked events and opens the authoring dialog
// for day. Events already queued for linking are left out of the link list.
func (w *Workflow) OpenDay(ctx context.Context, day time.Time) (*Dialog, error) {
	if w.state != AuthoringEvents {
		return nil, ErrWrongState
	}
	if !w.inRange(day) {
		return nil, ErrOutOfRange
	}
	cats, err := w.backend.ListCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load categories")
	}
	unlinked, err := w.backend.ListEvents(ctx, api.EventFilter{UnlinkedOnly: true})
	if err != nil {
		return nil, errors.Wrap(err, "load unlinked events")
	}
	queued := make(map[uuid.UUID]bool)
	for _, d := range w.drafts {
		if d.Link != nil {
			queued[d.Link.EventID] = true
		}
	}
	choices := make([]api.Event, 0, len(unlinked))
	for _, e := range unlinked {
		if !queued[e.ID] {
			choices = append(choices, e)
		}
	}
	return newDialog(schedule.Day(day), w.start, w.end, cats, choices, w.addDraft), nil
}

func (w *Workflow) addDraft(d Draft) Draft {
	w.nextID++
	d.ID = w.nextID
	w.drafts = append(w.drafts, d)
	return d
}

// Drafts returns the pending drafts in the order they will be committed.
func (w *Workflow) Drafts() []Draft { return append([]Draft(nil), w.drafts...) }

// DraftsOn lists the pending drafts shown on day.
func (w *Workflow) DraftsOn(day time.Time) []Draft {
	d := schedule.Day(day)
	var out []Draft
	for _, dr := range w.drafts {
		if dr.New != nil && schedule.Covers(dr.New.Schedule, d) {
			out = append(out, dr)
		} else if dr.Link != nil && schedule.Day(dr.Link.Date).Equal(d) {
			out = append(out, dr)
		}
	}
	return out
}

func (w *Workflow) RemoveDraft(id int) bool {
	for i, d := range w.drafts {
		if d.ID == id {
			w.drafts = append(w.drafts[:i], w.drafts[i+1:]...)
			return true
		}
	}
	return false
}

func (w *Workflow) calendarInput() api.CalendarInput {
	return api.CalendarInput{
		Title:     strings.TrimSpace(w.title),
		StartDate: schedule.NewDate(w.start),
		EndDate:   schedule.NewDate(w.end),
	}
}

// Save persists the calendar and then the drafts. On failure the returned
// *CommitError says what was persisted; the workflow keeps the uncommitted
// drafts and the calendar id so that calling Save again resumes.
func (w *Workflow) Save(ctx context.Context) error {
	if w.state != AuthoringEvents {
		return ErrWrongState
	}
	if strings.TrimSpace(w.title) == "" {
		w.fail(ErrTitleRequired.Error())
		return ErrTitleRequired
	}
	if w.atomic {
		return w.saveAtomic(ctx)
	}

	in := w.calendarInput()
	var (
		cal api.Calendar
		err error
	)
	if w.calendarID != nil {
		cal, err = w.backend.UpdateCalendar(ctx, *w.calendarID, in)
	} else {
		cal, err = w.backend.CreateCalendar(ctx, in)
	}
	if err != nil {
		ce := &CommitError{CalendarID: w.calendarID, NotAttempted: w.Drafts(), Err: err}
		if w.calendarID == nil {
			w.fail("Could not save calendar: " + errMessage(err))
		} else {
			w.fail("Could not update calendar: " + errMessage(err))
		}
		return ce
	}
	id := cal.ID
	w.calendarID = &id

	for i, d := range w.drafts {
		if err := w.commit(ctx, id, d); err != nil {
			failed := d
			ce := &CommitError{
				CalendarID:   &id,
				Succeeded:    append([]Draft(nil), w.drafts[:i]...),
				Failed:       &failed,
				NotAttempted: append([]Draft(nil), w.drafts[i+1:]...),
				Err:          err,
			}
			w.drafts = append([]Draft(nil), w.drafts[i:]...)
			log.Printf("[BUILDER] save stopped at draft %d/%d: %v", i+1, i+len(w.drafts), err)
			w.fail(fmt.Sprintf("Saved %d item(s); %q failed: %s; %d not attempted",
				len(ce.Succeeded), d.Title(), errMessage(err), len(ce.NotAttempted)))
			return ce
		}
	}

	w.drafts = nil
	w.state = Saved
	w.notifier.Notify(notify.Toast{Level: notify.Success, Message: "Calendar saved"})
	return nil
}

func (w *Workflow) commit(ctx context.Context, calendarID uuid.UUID, d Draft) error {
	if d.Link != nil {
		_, err := w.backend.LinkEvent(ctx, d.Link.EventID, &calendarID)
		return err
	}
	_, err := w.backend.CreateEvent(ctx, d.New.Input(calendarID))
	return err
}

func (w *Workflow) saveAtomic(ctx context.Context) error {
	req := api.BuildRequest{CalendarID: w.calendarID, CalendarInput: w.calendarInput()}
	for _, d := range w.drafts {
		req.Items = append(req.Items, d.buildItem())
	}
	res, err := w.backend.BuildCalendar(ctx, req)
	if err != nil {
		w.fail("Could not save calendar: " + errMessage(err))
		return &CommitError{CalendarID: w.calendarID, NotAttempted: w.Drafts(), Err: err}
	}
	id := res.Calendar.ID
	w.calendarID = &id
	w.drafts = nil
	w.state = Saved
	w.notifier.Notify(notify.Toast{Level: notify.Success, Message: "Calendar saved"})
	return nil
}

func (w *Workflow) fail(msg string) {
	w.notifier.Notify(notify.Toast{Level: notify.Failure, Message: msg})
}

func errMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
