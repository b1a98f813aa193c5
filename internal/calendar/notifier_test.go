package calendar

import (
	"testing"
	"time"

	"github.com/tempoapp/scheduling/pkg/logger"
)

func TestNotifierPublishesUpcomingOnce(t *testing.T) {
	store := NewStore(time.UTC)
	sink := &recordingSink{}
	notifier := NewNotifier(store, sink, logger.New("error", "text"), time.Minute, 15*time.Minute)

	now := ts(day, "09:00")

	soon, err := store.CreateEvent(draftAt("09:10", "09:40"))
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}
	if _, err := store.CreateEvent(draftAt("11:00", "12:00")); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	declined := draftAt("09:05", "09:08")
	declined.Status = StatusDeclined
	if _, err := store.CreateEvent(declined); err != nil {
		t.Fatalf("declined event: %v", err)
	}

	notifier.checkUpcoming(now)
	if len(sink.upcoming) != 1 || sink.upcoming[0] != soon.ID {
		t.Fatalf("upcoming notifications = %v, want [%s]", sink.upcoming, soon.ID)
	}

	// A second scan must not notify again.
	notifier.checkUpcoming(now.Add(time.Minute))
	if len(sink.upcoming) != 1 {
		t.Errorf("duplicate upcoming notification: %v", sink.upcoming)
	}

	// Once the event has started its bookkeeping entry is dropped.
	notifier.checkUpcoming(now.Add(time.Hour))
	if _, ok := notifier.notified[soon.ID]; ok {
		t.Error("started event still tracked by the notifier")
	}
}
