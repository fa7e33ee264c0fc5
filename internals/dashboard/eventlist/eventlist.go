// Package eventlist is the event table: load, change status in place, view,
// navigate to edit and delete with confirmation.
package eventlist

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"emiscal_backend/internals/dashboard/api"
	"emiscal_backend/internals/dashboard/notify"
)

// Backend is what the list needs from the API; *api.Client satisfies it.
type Backend interface {
	ListEvents(ctx context.Context, f api.EventFilter) ([]api.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, p api.EventPatch) (api.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

var (
	ErrUnknownEvent = errors.New("event is not in the list")
	// ErrNoConfirmer is returned by Delete when the list was built without a
	// Confirmer; nothing is sent.
	ErrNoConfirmer = errors.New("delete needs a confirmer")
)

type List struct {
	backend   Backend
	notifier  notify.Notifier
	confirmer notify.Confirmer

	mu           sync.Mutex
	unlinkedOnly bool
	rows         []api.Event
}

// New builds an empty list; call Load to fill it.
func New(backend Backend, notifier notify.Notifier, confirmer notify.Confirmer) *List {
	if notifier == nil {
		notifier = notify.Log{}
	}
	return &List{backend: backend, notifier: notifier, confirmer: confirmer}
}

func (l *List) UnlinkedOnly() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unlinkedOnly
}

// SetUnlinkedOnly flips the toggle and reloads.
func (l *List) SetUnlinkedOnly(ctx context.Context, on bool) error {
	l.mu.Lock()
	l.unlinkedOnly = on
	l.mu.Unlock()
	return l.Load(ctx)
}

// Load replaces the rows with a fresh fetch, in server order.
func (l *List) Load(ctx context.Context) error {
	l.mu.Lock()
	f := api.EventFilter{UnlinkedOnly: l.unlinkedOnly}
	l.mu.Unlock()

	rows, err := l.backend.ListEvents(ctx, f)
	if err != nil {
		l.notifier.Notify(notify.Toast{Level: notify.Failure, Message: "Could not load events"})
		return errors.Wrap(err, "load events")
	}
	l.mu.Lock()
	l.rows = rows
	l.mu.Unlock()
	return nil
}

func (l *List) Rows() []api.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]api.Event(nil), l.rows...)
}

func (l *List) index(id uuid.UUID) int {
	for i, r := range l.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ChangeStatus shows the new status immediately and sends a status-only
// patch. On failure the row goes back to its previous status.
func (l *List) ChangeStatus(ctx context.Context, id uuid.UUID, status api.Status) error {
	l.mu.Lock()
	i := l.index(id)
	if i < 0 {
		l.mu.Unlock()
		return ErrUnknownEvent
	}
	prev := l.rows[i].Status
	l.rows[i].Status = status
	l.mu.Unlock()

	updated, err := l.backend.UpdateEvent(ctx, id, api.StatusPatch(status))

	l.mu.Lock()
	defer l.mu.Unlock()
	i = l.index(id)
	if err != nil {
		if i >= 0 && l.rows[i].Status == status {
			l.rows[i].Status = prev
		}
		l.notifier.Notify(notify.Toast{Level: notify.Failure, Message: "Could not change status: " + errMessage(err)})
		return err
	}
	if i >= 0 {
		l.rows[i] = updated
	}
	l.notifier.Notify(notify.Toast{Level: notify.Success, Message: "Status updated"})
	return nil
}

// Details is a copy of one row; changing it does not touch the list.
func (l *List) Details(id uuid.UUID) (api.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return api.Event{}, ErrUnknownEvent
	}
	ev := l.rows[i]
	ev.Duration = clonePtr(ev.Duration)
	ev.Description = clonePtr(ev.Description)
	ev.Location = clonePtr(ev.Location)
	ev.Calendar = clonePtr(ev.Calendar)
	return ev, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// EditPath is where the edit form for id lives.
func EditPath(id uuid.UUID) string { return "/events/" + id.String() + "/edit" }

// Delete asks for confirmation first. Declining sends nothing and returns
// (false, nil); without a Confirmer it returns ErrNoConfirmer.
func (l *List) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	l.mu.Lock()
	i := l.index(id)
	var title string
	if i >= 0 {
		title = l.rows[i].Title
	}
	l.mu.Unlock()
	if i < 0 {
		return false, ErrUnknownEvent
	}

	if l.confirmer == nil {
		return false, ErrNoConfirmer
	}
	ok, err := l.confirmer.Confirm(ctx, "Delete event \""+title+"\"?")
	if err != nil || !ok {
		return false, err
	}

	if err := l.backend.DeleteEvent(ctx, id); err != nil {
		l.notifier.Notify(notify.Toast{Level: notify.Failure, Message: "Could not delete event: " + errMessage(err)})
		return false, err
	}
	l.mu.Lock()
	if i := l.index(id); i >= 0 {
		l.rows = append(l.rows[:i], l.rows[i+1:]...)
	}
	l.mu.Unlock()
	l.notifier.Notify(notify.Toast{Level: notify.Success, Message: "Event deleted"})
	return true, nil
}

func errMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
