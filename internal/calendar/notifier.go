package calendar

import (
	"context"
	"time"

	"github.com/tempoapp/scheduling/pkg/logger"
)

// Notifier periodically scans the store for events starting within the
// look-ahead window and publishes a single upcoming notification per event.
type Notifier struct {
	store    *Store
	sink     EventSink
	logger   *logger.Logger
	interval time.Duration
	window   time.Duration
	stopChan chan struct{}

	notified map[string]time.Time
}

func NewNotifier(store *Store, sink EventSink, log *logger.Logger, interval, window time.Duration) *Notifier {
	return &Notifier{
		store:    store,
		sink:     sink,
		logger:   log,
		interval: interval,
		window:   window,
		stopChan: make(chan struct{}),
		notified: make(map[string]time.Time),
	}
}

func (n *Notifier) Start(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.logger.Info("Notifier started", map[string]interface{}{
		"interval": n.interval.String(),
		"window":   n.window.String(),
	})

	// Run immediately on start
	n.checkUpcoming(time.Now())

	for {
		select {
		case <-ticker.C:
			n.checkUpcoming(time.Now())
		case <-n.stopChan:
			n.logger.Info("Notifier stopped", nil)
			return
		case <-ctx.Done():
			n.logger.Info("Notifier context cancelled", nil)
			return
		}
	}
}

func (n *Notifier) Stop() {
	close(n.stopChan)
}

func (n *Notifier) checkUpcoming(now time.Time) {
	events := n.store.EventsStartingBetween(now, now.Add(n.window))

	for i := range events {
		ev := events[i]
		if _, ok := n.notified[ev.ID]; ok {
			continue
		}

		if n.sink != nil {
			if err := n.sink.PublishEventUpcoming(&ev); err != nil {
				n.logger.Error("Failed to publish upcoming notification", map[string]interface{}{
					"event_id": ev.ID,
					"error":    err.Error(),
				})
				continue
			}
		}
		n.notified[ev.ID] = ev.StartTime

		n.logger.Debug("Published upcoming notification", map[string]interface{}{
			"event_id": ev.ID,
			"start":    ev.StartTime,
		})
	}

	// Forget events that have already started so the map stays day-sized.
	for id, start := range n.notified {
		if start.Before(now) {
			delete(n.notified, id)
		}
	}
}
