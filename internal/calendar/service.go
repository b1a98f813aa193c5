package calendar

import (
	"time"

	"github.com/tempoapp/scheduling/pkg/logger"
)

// DateFormat is the wire format for day-scoped queries.
const DateFormat = "2006-01-02"

// EventSink receives notifications about event lifecycle changes. The NATS
// publisher implements it; tests substitute their own.
type EventSink interface {
	PublishEventCreated(ev *Event) error
	PublishEventUpdated(ev *Event) error
	PublishEventDeleted(id string) error
	PublishEventUpcoming(ev *Event) error
}

// Service is the boundary exposed to the transport layer. It owns no state
// of its own: the store holds the events, the availability engine computes
// slots, and the sink fans out notifications.
type Service struct {
	store  *Store
	avail  *Availability
	sink   EventSink
	logger *logger.Logger
}

func NewService(store *Store, avail *Availability, sink EventSink, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		avail:  avail,
		sink:   sink,
		logger: log,
	}
}

func (s *Service) ListEvents() []Event {
	return s.store.ListEvents()
}

func (s *Service) CreateEvent(draft EventDraft) (*Event, error) {
	ev, err := s.store.CreateEvent(draft)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Event created", map[string]interface{}{
		"event_id": ev.ID,
		"title":    ev.Title,
		"start":    ev.StartTime,
		"end":      ev.EndTime,
		"source":   ev.Source,
	})
	s.publish(func(sink EventSink) error { return sink.PublishEventCreated(ev) })

	return ev, nil
}

func (s *Service) GetEvent(id string) (*Event, error) {
	return s.store.GetEvent(id)
}

func (s *Service) UpdateEvent(id string, draft EventDraft) (*Event, error) {
	ev, err := s.store.UpdateEvent(id, draft)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Event updated", map[string]interface{}{
		"event_id": ev.ID,
		"start":    ev.StartTime,
		"end":      ev.EndTime,
		"status":   ev.Status,
	})
	s.publish(func(sink EventSink) error { return sink.PublishEventUpdated(ev) })

	return ev, nil
}

func (s *Service) DeleteEvent(id string) error {
	if err := s.store.DeleteEvent(id); err != nil {
		return err
	}

	s.logger.Info("Event deleted", map[string]interface{}{
		"event_id": id,
	})
	s.publish(func(sink EventSink) error { return sink.PublishEventDeleted(id) })

	return nil
}

// AvailableSlots returns the free slots of the given duration on the given
// day (wire format YYYY-MM-DD), earliest first.
func (s *Service) AvailableSlots(date string, durationMinutes int) ([]TimeSlot, error) {
	day, duration, err := s.parseScheduleRequest(date, durationMinutes)
	if err != nil {
		return nil, err
	}
	return s.avail.SlotsForDay(day, duration)
}

// SuggestAlternatives returns ranked alternative slots for a conflicted
// request, extending the search past the requested day within the configured
// look-ahead bound.
func (s *Service) SuggestAlternatives(date string, durationMinutes int) ([]TimeSlot, error) {
	day, duration, err := s.parseScheduleRequest(date, durationMinutes)
	if err != nil {
		return nil, err
	}
	return s.avail.SuggestAlternatives(day, duration)
}

func (s *Service) parseScheduleRequest(date string, durationMinutes int) (time.Time, time.Duration, error) {
	day, err := time.ParseInLocation(DateFormat, date, s.store.Location())
	if err != nil {
		return time.Time{}, 0, validationErrorf("invalid date %q, use YYYY-MM-DD", date)
	}
	if durationMinutes <= 0 {
		return time.Time{}, 0, validationErrorf("duration_minutes must be positive")
	}
	return day, time.Duration(durationMinutes) * time.Minute, nil
}

// publish fans a notification out to the sink. Delivery failures are logged
// and swallowed: the mutation already happened and the store is the source
// of truth.
func (s *Service) publish(fn func(EventSink) error) {
	if s.sink == nil {
		return
	}
	if err := fn(s.sink); err != nil {
		s.logger.Error("Failed to publish calendar notification", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
