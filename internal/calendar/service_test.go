package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/tempoapp/scheduling/pkg/logger"
)

type recordingSink struct {
	created  []string
	updated  []string
	deleted  []string
	upcoming []string
	failWith error
}

func (r *recordingSink) PublishEventCreated(ev *Event) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.created = append(r.created, ev.ID)
	return nil
}

func (r *recordingSink) PublishEventUpdated(ev *Event) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.updated = append(r.updated, ev.ID)
	return nil
}

func (r *recordingSink) PublishEventDeleted(id string) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *recordingSink) PublishEventUpcoming(ev *Event) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.upcoming = append(r.upcoming, ev.ID)
	return nil
}

func newTestService(sink EventSink) (*Service, *Store) {
	store := NewStore(time.UTC)
	avail := testAvailability(store)
	log := logger.New("error", "text")
	return NewService(store, avail, sink, log), store
}

func TestServicePublishesLifecycleNotifications(t *testing.T) {
	sink := &recordingSink{}
	svc, _ := newTestService(sink)

	ev, err := svc.CreateEvent(draftAt("10:00", "11:00"))
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if len(sink.created) != 1 || sink.created[0] != ev.ID {
		t.Errorf("created notifications = %v, want [%s]", sink.created, ev.ID)
	}

	if _, err := svc.UpdateEvent(ev.ID, draftAt("11:00", "12:00")); err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}
	if len(sink.updated) != 1 {
		t.Errorf("updated notifications = %v, want one", sink.updated)
	}

	if err := svc.DeleteEvent(ev.ID); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if len(sink.deleted) != 1 || sink.deleted[0] != ev.ID {
		t.Errorf("deleted notifications = %v, want [%s]", sink.deleted, ev.ID)
	}
}

func TestServiceDoesNotPublishOnFailure(t *testing.T) {
	sink := &recordingSink{}
	svc, _ := newTestService(sink)

	if _, err := svc.CreateEvent(draftAt("10:00", "11:00")); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	if _, err := svc.CreateEvent(draftAt("10:15", "10:45")); err == nil {
		t.Fatal("conflicting create succeeded")
	}
	if _, err := svc.CreateEvent(EventDraft{Title: ""}); err == nil {
		t.Fatal("invalid create succeeded")
	}
	if err := svc.DeleteEvent("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteEvent() error = %v, want ErrNotFound", err)
	}

	if len(sink.created) != 1 || len(sink.deleted) != 0 {
		t.Errorf("failed operations were published: created=%v deleted=%v", sink.created, sink.deleted)
	}
}

func TestServiceSurvivesSinkFailure(t *testing.T) {
	sink := &recordingSink{failWith: errors.New("nats down")}
	svc, store := newTestService(sink)

	ev, err := svc.CreateEvent(draftAt("10:00", "11:00"))
	if err != nil {
		t.Fatalf("CreateEvent() with failing sink error = %v", err)
	}
	if _, err := store.GetEvent(ev.ID); err != nil {
		t.Errorf("event was not stored despite sink failure: %v", err)
	}
}

func TestServiceWithoutSink(t *testing.T) {
	svc, _ := newTestService(nil)
	if _, err := svc.CreateEvent(draftAt("10:00", "11:00")); err != nil {
		t.Fatalf("CreateEvent() with nil sink error = %v", err)
	}
}

func TestServiceAvailableSlots(t *testing.T) {
	svc, store := newTestService(nil)

	if _, err := store.CreateEvent(draftAt("10:00", "11:00")); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	slots, err := svc.AvailableSlots(day, 60)
	if err != nil {
		t.Fatalf("AvailableSlots() error = %v", err)
	}
	if len(slots) != 7 {
		t.Errorf("AvailableSlots() returned %d slots, want 7", len(slots))
	}

	var validationErr *ValidationError
	if _, err := svc.AvailableSlots("10-03-2025", 30); !errors.As(err, &validationErr) {
		t.Errorf("bad date error = %v, want ValidationError", err)
	}
	if _, err := svc.AvailableSlots(day, 0); !errors.As(err, &validationErr) {
		t.Errorf("zero duration error = %v, want ValidationError", err)
	}
	if _, err := svc.AvailableSlots(day, -30); !errors.As(err, &validationErr) {
		t.Errorf("negative duration error = %v, want ValidationError", err)
	}
}

func TestServiceSuggestAlternatives(t *testing.T) {
	svc, store := newTestService(nil)

	if _, err := store.CreateEvent(draftAt("09:00", "17:00")); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	slots, err := svc.SuggestAlternatives(day, 30)
	if err != nil {
		t.Fatalf("SuggestAlternatives() error = %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("SuggestAlternatives() found nothing, want next-day slots")
	}
	if !slots[0].Start.Equal(ts("2025-03-11", "09:00")) {
		t.Errorf("first alternative starts %v, want next day 09:00", slots[0].Start)
	}
}
