package calendar

import (
	"time"

	"github.com/tempoapp/scheduling/internal/interval"
)

// AvailabilityConfig pins down the single business window used for all slot
// computation, plus the bounds that keep slot enumeration finite.
type AvailabilityConfig struct {
	// DayStart and DayEnd are offsets from local midnight, e.g. 9h and 17h
	// for a 09:00-17:00 business day.
	DayStart time.Duration
	DayEnd   time.Duration

	// MaxDuration caps the duration a caller may request.
	MaxDuration time.Duration

	// LookaheadDays bounds how many subsequent days SuggestAlternatives may
	// search when the requested day is fully booked.
	LookaheadDays int

	// SuggestionLimit caps the number of alternatives returned.
	SuggestionLimit int
}

// Availability answers "what free slots of length D exist on day X". Results
// are recomputed from the store on every call; nothing is cached, because the
// event set may have mutated between calls.
type Availability struct {
	store *Store
	cfg   AvailabilityConfig
}

func NewAvailability(store *Store, cfg AvailabilityConfig) *Availability {
	return &Availability{
		store: store,
		cfg:   cfg,
	}
}

// SlotsForDay returns every free slot of exactly the given duration within
// the business window of the given day, earliest first. A duration longer
// than the window yields an empty result, not an error.
func (a *Availability) SlotsForDay(date time.Time, duration time.Duration) ([]TimeSlot, error) {
	if duration <= 0 {
		return nil, validationErrorf("duration must be positive")
	}
	if a.cfg.MaxDuration > 0 && duration > a.cfg.MaxDuration {
		return nil, validationErrorf("duration exceeds maximum of %s", a.cfg.MaxDuration)
	}

	window := a.windowFor(date)
	slots := []TimeSlot{}
	if duration > window.Duration() {
		return slots, nil
	}

	gaps := interval.Subtract(window, a.store.BusyIntervalsForDay(date))
	for _, iv := range interval.Slots(gaps, duration) {
		slots = append(slots, TimeSlot{Start: iv.Start, End: iv.End})
	}
	return slots, nil
}

// SuggestAlternatives returns ranked alternative slots for the given day,
// chronological order, earliest first. If the day has no free slot of the
// requested duration the search extends one day at a time, up to the
// configured look-ahead, before giving up with an empty result.
func (a *Availability) SuggestAlternatives(date time.Time, duration time.Duration) ([]TimeSlot, error) {
	for offset := 0; offset <= a.cfg.LookaheadDays; offset++ {
		slots, err := a.SlotsForDay(date.AddDate(0, 0, offset), duration)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}
		if a.cfg.SuggestionLimit > 0 && len(slots) > a.cfg.SuggestionLimit {
			slots = slots[:a.cfg.SuggestionLimit]
		}
		return slots, nil
	}
	return []TimeSlot{}, nil
}

func (a *Availability) windowFor(date time.Time) interval.Interval {
	day := startOfDay(date.In(a.store.Location()))
	return interval.New(day.Add(a.cfg.DayStart), day.Add(a.cfg.DayEnd))
}
