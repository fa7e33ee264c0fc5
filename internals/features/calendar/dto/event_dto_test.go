package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "emiscal_backend/internals/features/calendar/model"
	"emiscal_backend/internals/features/calendar/schedule"
	helper "emiscal_backend/internals/helpers"
	"emiscal_backend/internals/helpers/dbtime"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func storedEvent(t *testing.T) model.CalendarEvent {
	t.Helper()
	calID := uuid.New()
	m := model.CalendarEvent{
		CalendarEventsID:          uuid.New(),
		CalendarEventsTitle:       "Ujian Tengah Semester",
		CalendarEventsCategoryID:  uuid.New(),
		CalendarEventsDescription: strPtr("ruang 2"),
		CalendarEventsStatus:      model.StatusDraft,
		CalendarEventsCalendarID:  &calID,
	}
	sch, err := schedule.New(schedule.Multi, schedule.MustDate("2024-03-04"), ptrDate("2024-03-08"),
		schedule.Times{Start: dbtime.Clock(8, 0), End: dbtime.Clock(12, 0)}, intPtr(120))
	require.NoError(t, err)
	m.SetSchedule(sch)
	return m
}

func ptrDate(s string) *time.Time {
	d := schedule.MustDate(s)
	return &d
}

func TestPatchFieldTriState(t *testing.T) {
	var p PatchEventRequest
	require.NoError(t, json.Unmarshal([]byte(`{"calendar":null,"title":"X"}`), &p))

	assert.True(t, p.Calendar.Present)
	assert.Nil(t, p.Calendar.Value)
	assert.True(t, p.Title.Present)
	assert.Equal(t, "X", *p.Title.Value)
	assert.False(t, p.Status.Present)
	assert.False(t, p.Description.Present)
}

func TestApplyPatchStatusOnly(t *testing.T) {
	m := storedEvent(t)
	before := m

	p := PatchEventRequest{Status: Set("published")}
	p.Normalize()
	require.NoError(t, p.ValidatePartial())
	require.NoError(t, p.ApplyPatch(&m))

	assert.Equal(t, model.StatusPublished, m.CalendarEventsStatus)
	before.CalendarEventsStatus = model.StatusPublished
	assert.Equal(t, before, m)
}

func TestApplyPatchNullCalendarUnlinks(t *testing.T) {
	m := storedEvent(t)
	p := PatchEventRequest{Calendar: Null[string]()}
	require.NoError(t, p.ApplyPatch(&m))
	assert.Nil(t, m.CalendarEventsCalendarID)
	assert.False(t, m.IsLinked())
}

func TestApplyPatchSchedule(t *testing.T) {
	tests := []struct {
		name      string
		patch     PatchEventRequest
		wantField string
		check     func(t *testing.T, m model.CalendarEvent)
	}{
		{
			name:  "to single drops end date and duration",
			patch: PatchEventRequest{Type: Set("single")},
			check: func(t *testing.T, m model.CalendarEvent) {
				assert.Equal(t, schedule.Single, m.CalendarEventsType)
				assert.Equal(t, m.CalendarEventsStartDate, m.CalendarEventsEndDate)
				assert.Nil(t, m.CalendarEventsDurationMinutes)
			},
		},
		{
			name:  "moving start keeps stored end",
			patch: PatchEventRequest{StartDate: Set("2024-03-05")},
			check: func(t *testing.T, m model.CalendarEvent) {
				assert.Equal(t, "2024-03-05", schedule.FormatDate(m.CalendarEventsStartDate))
				assert.Equal(t, "2024-03-08", schedule.FormatDate(m.CalendarEventsEndDate))
			},
		},
		{name: "start after end", patch: PatchEventRequest{StartDate: Set("2024-03-09")}, wantField: "end_date"},
		{name: "duration out of range", patch: PatchEventRequest{Duration: Set(0)}, wantField: "duration"},
		{name: "bad time", patch: PatchEventRequest{StartTime: Set("25:99")}, wantField: "start_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := storedEvent(t)
			err := tt.patch.ApplyPatch(&m)
			if tt.wantField != "" {
				var fe *FieldError
				require.True(t, errors.As(err, &fe), "want FieldError, got %v", err)
				assert.Equal(t, tt.wantField, fe.Field)
				return
			}
			require.NoError(t, err)
			tt.check(t, m)
		})
	}
}

func TestPatchSwitchToMultiNeedsEndDate(t *testing.T) {
	m := storedEvent(t)
	single, err := schedule.New(schedule.Single, m.CalendarEventsStartDate, nil, schedule.Times{}, nil)
	require.NoError(t, err)
	m.SetSchedule(single)

	p := PatchEventRequest{Type: Set("multi")}
	err = p.ApplyPatch(&m)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "end_date", fe.Field)
}

func TestValidatePartialRejectsNullRequired(t *testing.T) {
	for _, body := range []string{`{"title":null}`, `{"status":""}`, `{"start_time":null}`, `{"status":"archived"}`, `{"type":"weekly"}`} {
		var p PatchEventRequest
		require.NoError(t, json.Unmarshal([]byte(body), &p))
		p.Normalize()
		assert.Error(t, p.ValidatePartial(), body)
	}
}

func TestCreateEventToModel(t *testing.T) {
	catID := uuid.New()
	req := CreateEventRequest{
		Title:     "  Libur Nasional ",
		Category:  catID.String(),
		Type:      "single",
		StartDate: "2024-08-17",
		EndDate:   strPtr("2024-08-20"),
		StartTime: "00:00",
		EndTime:   "23:59",
		Duration:  intPtr(60),
	}
	req.Normalize()
	require.NoError(t, req.Validate(helper.Validate))

	m, err := req.ToModel()
	require.NoError(t, err)
	assert.Equal(t, "Libur Nasional", m.CalendarEventsTitle)
	assert.Equal(t, catID, m.CalendarEventsCategoryID)
	assert.Equal(t, m.CalendarEventsStartDate, m.CalendarEventsEndDate, "single day keeps end == start")
	assert.Nil(t, m.CalendarEventsDurationMinutes)
	assert.Nil(t, m.CalendarEventsCalendarID)
}

func TestCreateEventValidation(t *testing.T) {
	req := CreateEventRequest{Type: "weekly", StartDate: "17-08-2024", Category: "nope"}
	req.Normalize()
	err := req.Validate(helper.Validate)
	require.Error(t, err)

	fields := helper.FieldErrors(err)
	for _, f := range []string{"title", "category", "type", "start_date", "start_time", "end_time"} {
		assert.Contains(t, fields, f)
	}
}

func TestCreateMultiWithoutEndDate(t *testing.T) {
	req := CreateEventRequest{
		Title: "PTS", Category: uuid.NewString(), Type: "multi",
		StartDate: "2024-03-04", StartTime: "08:00", EndTime: "12:00",
	}
	_, err := req.ToModel()
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "end_date", fe.Field)
	assert.ErrorIs(t, err, schedule.ErrEndDateRequired)
}

func TestEventTimesMustIncrease(t *testing.T) {
	req := CreateEventRequest{
		Title: "Malam Bina Iman", Category: uuid.NewString(), Type: "single",
		StartDate: "2024-10-04", StartTime: "22:00", EndTime: "01:00",
	}
	_, err := req.ToModel()
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "end_time", fe.Field)
	assert.ErrorIs(t, err, schedule.ErrEndTimeOrder)

	m := storedEvent(t)
	p := PatchEventRequest{EndTime: Set("07:00")}
	err = p.ApplyPatch(&m)
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "end_time", fe.Field)
	assert.Equal(t, 12, m.CalendarEventsEndTime.Hour(), "rejected patch leaves the row alone")
}
