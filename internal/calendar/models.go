package calendar

import (
	"time"

	"github.com/tempoapp/scheduling/internal/interval"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusTentative Status = "tentative"
	StatusDeclined  Status = "declined"
)

// Active reports whether an event with this status occupies calendar time.
// Declined events are kept for history but never block other bookings.
func (s Status) Active() bool {
	return s == StatusConfirmed || s == StatusTentative
}

func (s Status) Valid() bool {
	return s == StatusConfirmed || s == StatusTentative || s == StatusDeclined
}

type Source string

const (
	SourceManual Source = "manual"
	SourceEmail  Source = "email"
)

func (s Source) Valid() bool {
	return s == SourceManual || s == SourceEmail
}

type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	IsAllDay         bool      `json:"is_all_day"`
	Status           Status    `json:"status"`
	Source           Source    `json:"source"`
	MeetingRequestID string    `json:"meeting_request_id,omitempty"`
}

// Interval returns the event's booked span as a half-open interval.
func (e *Event) Interval() interval.Interval {
	return interval.New(e.StartTime, e.EndTime)
}

// EventDraft is a caller-supplied event payload prior to identity assignment
// and validation. Status defaults to confirmed and Source to manual.
type EventDraft struct {
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	IsAllDay         bool      `json:"is_all_day"`
	Status           Status    `json:"status,omitempty"`
	Source           Source    `json:"source,omitempty"`
	MeetingRequestID string    `json:"meeting_request_id,omitempty"`
}

// DraftFromMeetingRequest builds an email-sourced draft from the fields the
// mail scanner extracts: a proposed start, a duration, a subject line, and
// the originating message id.
func DraftFromMeetingRequest(title string, start time.Time, duration time.Duration, requestID string) EventDraft {
	return EventDraft{
		Title:            title,
		StartTime:        start,
		EndTime:          start.Add(duration),
		Status:           StatusTentative,
		Source:           SourceEmail,
		MeetingRequestID: requestID,
	}
}

// TimeSlot is a computed free interval. Slots are never stored; they are
// recomputed from the event set on every request.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type ScheduleRequest struct {
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
