package calendar

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tempoapp/scheduling/internal/interval"
)

// Store holds the authoritative set of calendar events for the lifetime of
// the process. Mutations are serialized: the write lock is held across the
// whole validate-then-insert sequence so that two concurrent creates for
// overlapping intervals can never both pass the conflict check.
type Store struct {
	mu     sync.RWMutex
	events map[string]*Event
	loc    *time.Location
}

// NewStore creates an empty store. All day arithmetic (all-day expansion,
// per-day busy views) uses the given location.
func NewStore(loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		events: make(map[string]*Event),
		loc:    loc,
	}
}

func (s *Store) Location() *time.Location {
	return s.loc
}

// CreateEvent validates the draft, checks it against every active booking and
// inserts it under a single write lock. Returns ValidationError or
// ConflictError on failure.
func (s *Store) CreateEvent(draft EventDraft) (*Event, error) {
	ev, err := s.eventFromDraft(draft)
	if err != nil {
		return nil, err
	}
	ev.ID = uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Status.Active() {
		if ids := s.conflictsLocked(ev.Interval(), ""); len(ids) > 0 {
			return nil, &ConflictError{ConflictingIDs: ids}
		}
	}

	s.events[ev.ID] = ev
	out := *ev
	return &out, nil
}

// GetEvent returns a copy of the event or ErrNotFound.
func (s *Store) GetEvent(id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *ev
	return &out, nil
}

// ListEvents returns all events ordered by start time.
func (s *Store) ListEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		events = append(events, *ev)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events
}

// UpdateEvent atomically replaces the event's title, description, time,
// status and source. The event's own prior occurrence is excluded from the
// conflict check, so updating an event to its unchanged interval never
// conflicts with itself.
func (s *Store) UpdateEvent(id string, draft EventDraft) (*Event, error) {
	ev, err := s.eventFromDraft(draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return nil, ErrNotFound
	}

	if ev.Status.Active() {
		if ids := s.conflictsLocked(ev.Interval(), id); len(ids) > 0 {
			return nil, &ConflictError{ConflictingIDs: ids}
		}
	}

	ev.ID = id
	s.events[id] = ev
	out := *ev
	return &out, nil
}

// DeleteEvent removes the event. Deletion is not idempotent: a second delete
// of the same id returns ErrNotFound, signaling caller misuse.
func (s *Store) DeleteEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	return nil
}

// BusyIntervalsForDay returns the spans of all active events that intersect
// the given calendar day, ordered by start time. An event that crosses
// midnight is busy on every day it intersects; clipping to a bounding window
// is the caller's concern.
func (s *Store) BusyIntervalsForDay(date time.Time) []interval.Interval {
	day := s.dayWindow(date)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var busy []interval.Interval
	for _, ev := range s.events {
		if !ev.Status.Active() {
			continue
		}
		if ev.Interval().Overlaps(day) {
			busy = append(busy, ev.Interval())
		}
	}
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})
	return busy
}

// EventsStartingBetween returns active events whose start falls in
// [from, to), ordered by start time.
func (s *Store) EventsStartingBetween(from, to time.Time) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []Event
	for _, ev := range s.events {
		if !ev.Status.Active() {
			continue
		}
		if !ev.StartTime.Before(from) && ev.StartTime.Before(to) {
			events = append(events, *ev)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events
}

// conflictsLocked returns the ids of active events overlapping ivl, excluding
// excludeID. Callers must hold at least the read lock; mutators call it with
// the write lock held so the check and the insert form one atomic step.
func (s *Store) conflictsLocked(ivl interval.Interval, excludeID string) []string {
	var ids []string
	for id, ev := range s.events {
		if id == excludeID || !ev.Status.Active() {
			continue
		}
		if ev.Interval().Overlaps(ivl) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// eventFromDraft validates a draft and normalizes it into an Event without an
// id. All-day drafts expand to the full local day of their start, whatever
// start/end the caller supplied.
func (s *Store) eventFromDraft(draft EventDraft) (*Event, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, validationErrorf("title must not be empty")
	}

	status := draft.Status
	if status == "" {
		status = StatusConfirmed
	}
	if !status.Valid() {
		return nil, validationErrorf("invalid status %q", draft.Status)
	}

	source := draft.Source
	if source == "" {
		source = SourceManual
	}
	if !source.Valid() {
		return nil, validationErrorf("invalid source %q", draft.Source)
	}

	start, end := draft.StartTime, draft.EndTime
	if start.IsZero() {
		return nil, validationErrorf("start_time is required")
	}
	if draft.IsAllDay {
		day := startOfDay(start.In(s.loc))
		start, end = day, day.Add(24*time.Hour)
	}
	if end.IsZero() {
		return nil, validationErrorf("end_time is required")
	}
	if !start.Before(end) {
		return nil, validationErrorf("start_time must be before end_time")
	}

	return &Event{
		Title:            title,
		Description:      draft.Description,
		StartTime:        start,
		EndTime:          end,
		IsAllDay:         draft.IsAllDay,
		Status:           status,
		Source:           source,
		MeetingRequestID: draft.MeetingRequestID,
	}, nil
}

func (s *Store) dayWindow(date time.Time) interval.Interval {
	day := startOfDay(date.In(s.loc))
	return interval.New(day, day.Add(24*time.Hour))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
