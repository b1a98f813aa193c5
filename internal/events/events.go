package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tempoapp/scheduling/internal/calendar"
	"github.com/tempoapp/scheduling/pkg/logger"
)

type Publisher struct {
	nc     *nats.Conn
	logger *logger.Logger
}

func NewPublisher(natsURL string, log *logger.Logger) (*Publisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("Connected to NATS", map[string]interface{}{
		"url": natsURL,
	})

	return &Publisher{
		nc:     nc,
		logger: log,
	}, nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

type CalendarMessage struct {
	Type      string          `json:"type"`
	Event     *calendar.Event `json:"event,omitempty"`
	EventID   string          `json:"event_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func (p *Publisher) PublishEventCreated(ev *calendar.Event) error {
	return p.publish("tempo.calendar.event.created", &CalendarMessage{
		Type:      "event.created",
		Event:     ev,
		Timestamp: time.Now(),
	})
}

func (p *Publisher) PublishEventUpdated(ev *calendar.Event) error {
	return p.publish("tempo.calendar.event.updated", &CalendarMessage{
		Type:      "event.updated",
		Event:     ev,
		Timestamp: time.Now(),
	})
}

func (p *Publisher) PublishEventDeleted(id string) error {
	return p.publish("tempo.calendar.event.deleted", &CalendarMessage{
		Type:      "event.deleted",
		EventID:   id,
		Timestamp: time.Now(),
	})
}

func (p *Publisher) PublishEventUpcoming(ev *calendar.Event) error {
	return p.publish("tempo.calendar.event.upcoming", &CalendarMessage{
		Type:      "event.upcoming",
		Event:     ev,
		Timestamp: time.Now(),
	})
}

func (p *Publisher) publish(subject string, msg *CalendarMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	fields := map[string]interface{}{
		"subject": subject,
	}
	if msg.Event != nil {
		fields["event_id"] = msg.Event.ID
	} else if msg.EventID != "" {
		fields["event_id"] = msg.EventID
	}
	p.logger.Debug("Published calendar message", fields)

	return nil
}
