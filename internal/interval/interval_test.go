package interval

import (
	"reflect"
	"testing"
	"time"
)

func at(hhmm string) time.Time {
	parsed, err := time.Parse("2006-01-02 15:04", "2025-03-10 "+hhmm)
	if err != nil {
		panic(err)
	}
	return parsed
}

func iv(start, end string) Interval {
	return Interval{Start: at(start), End: at(end)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", iv("09:00", "10:00"), iv("11:00", "12:00"), false},
		{"partial overlap", iv("09:00", "10:30"), iv("10:00", "11:00"), true},
		{"contained", iv("09:00", "12:00"), iv("10:00", "11:00"), true},
		{"identical", iv("09:00", "10:00"), iv("09:00", "10:00"), true},
		{"touching endpoints", iv("09:00", "10:00"), iv("10:00", "11:00"), false},
		{"zero-length probe at start", iv("09:00", "09:00"), iv("09:00", "10:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "unsorted disjoint",
			in:   []Interval{iv("13:00", "14:00"), iv("09:00", "10:00")},
			want: []Interval{iv("09:00", "10:00"), iv("13:00", "14:00")},
		},
		{
			name: "overlapping coalesce",
			in:   []Interval{iv("09:00", "10:30"), iv("10:00", "11:00")},
			want: []Interval{iv("09:00", "11:00")},
		},
		{
			name: "adjacent coalesce",
			in:   []Interval{iv("09:00", "10:00"), iv("10:00", "11:00")},
			want: []Interval{iv("09:00", "11:00")},
		},
		{
			name: "contained swallowed",
			in:   []Interval{iv("09:00", "12:00"), iv("10:00", "11:00")},
			want: []Interval{iv("09:00", "12:00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
			// Merging already-merged intervals yields the same result.
			if again := Merge(got); !reflect.DeepEqual(again, got) {
				t.Errorf("Merge() not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestSubtract(t *testing.T) {
	window := iv("09:00", "17:00")

	tests := []struct {
		name string
		busy []Interval
		want []Interval
	}{
		{
			name: "no busy intervals",
			busy: nil,
			want: []Interval{window},
		},
		{
			name: "single booking mid-day",
			busy: []Interval{iv("10:00", "11:00")},
			want: []Interval{iv("09:00", "10:00"), iv("11:00", "17:00")},
		},
		{
			name: "overlapping bookings leave no phantom gap",
			busy: []Interval{iv("10:00", "12:00"), iv("11:00", "13:00")},
			want: []Interval{iv("09:00", "10:00"), iv("13:00", "17:00")},
		},
		{
			name: "booking spilling past window edges is clipped",
			busy: []Interval{iv("08:00", "09:30"), iv("16:30", "18:00")},
			want: []Interval{iv("09:30", "16:30")},
		},
		{
			name: "fully booked day",
			busy: []Interval{iv("09:00", "17:00")},
			want: nil,
		},
		{
			name: "booking outside window ignored",
			busy: []Interval{iv("07:00", "08:00")},
			want: []Interval{window},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subtract(window, tt.busy)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Subtract() = %v, want %v", got, tt.want)
			}
			for _, gap := range got {
				for _, b := range tt.busy {
					if gap.Overlaps(b) {
						t.Errorf("gap %v overlaps busy %v", gap, b)
					}
				}
			}
		})
	}
}

func TestSlots(t *testing.T) {
	tests := []struct {
		name string
		gaps []Interval
		d    time.Duration
		want []Interval
	}{
		{
			name: "gap shorter than duration yields nothing",
			gaps: []Interval{iv("09:00", "09:20")},
			d:    30 * time.Minute,
			want: nil,
		},
		{
			name: "gap equal to duration yields exactly one slot",
			gaps: []Interval{iv("09:00", "10:00")},
			d:    time.Hour,
			want: []Interval{iv("09:00", "10:00")},
		},
		{
			name: "duration one minute longer yields zero slots",
			gaps: []Interval{iv("09:00", "10:00")},
			d:    61 * time.Minute,
			want: nil,
		},
		{
			name: "slots step through the gap earliest-first",
			gaps: []Interval{iv("11:00", "13:30")},
			d:    time.Hour,
			want: []Interval{iv("11:00", "12:00"), iv("12:00", "13:00")},
		},
		{
			name: "multiple gaps keep chronological order",
			gaps: []Interval{iv("09:00", "10:00"), iv("11:00", "12:30")},
			d:    30 * time.Minute,
			want: []Interval{
				iv("09:00", "09:30"), iv("09:30", "10:00"),
				iv("11:00", "11:30"), iv("11:30", "12:00"), iv("12:00", "12:30"),
			},
		},
		{
			name: "non-positive duration yields nothing",
			gaps: []Interval{iv("09:00", "10:00")},
			d:    0,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slots(tt.gaps, tt.d)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Slots() = %v, want %v", got, tt.want)
			}
		})
	}
}
