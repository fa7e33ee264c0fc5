package builder

import (
	"time"

	"github.com/google/uuid"

	"emiscal_backend/internals/dashboard/api"
	"emiscal_backend/internals/features/calendar/schedule"
)

// NewEventDraft is an event that will be created when the calendar is saved.
type NewEventDraft struct {
	Title       string
	Category    uuid.UUID
	Schedule    schedule.Schedule
	Description *string
	Location    *string
}

// Input is the createEvent body with the calendar already attached.
func (d NewEventDraft) Input(calendarID uuid.UUID) api.EventInput {
	in := api.NewEventInput(d.Title, d.Category, d.Schedule)
	in.Description = d.Description
	in.Location = d.Location
	in.Calendar = &calendarID
	return in
}

// LinkRequest attaches an existing unlinked event when the calendar is saved.
type LinkRequest struct {
	EventID uuid.UUID
	Title   string
	Date    time.Time
}

// Draft is one entry of the draft list: exactly one of New or Link is set.
type Draft struct {
	ID   int
	New  *NewEventDraft
	Link *LinkRequest
}

func (d Draft) IsLink() bool { return d.Link != nil }

func (d Draft) Title() string {
	if d.Link != nil {
		return d.Link.Title
	}
	return d.New.Title
}

// Date is the day the draft shows up on in the month grid.
func (d Draft) Date() time.Time {
	if d.Link != nil {
		return d.Link.Date
	}
	return d.New.Schedule.StartDate()
}

func (d Draft) buildItem() api.BuildItem {
	if d.Link != nil {
		id := d.Link.EventID
		return api.BuildItem{Link: &id}
	}
	in := api.NewEventInput(d.New.Title, d.New.Category, d.New.Schedule)
	in.Description = d.New.Description
	in.Location = d.New.Location
	return api.BuildItem{Event: &in}
}
