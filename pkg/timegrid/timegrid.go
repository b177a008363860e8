// Package timegrid provides the clinic's slot arithmetic: clock times as
// minutes since midnight, half-open interval overlap, and the 15-minute
// candidate grid inside the facility's operating window.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// OpeningMinute and ClosingMinute bound the bookable day (09:00-18:00).
	OpeningMinute = 9 * 60
	ClosingMinute = 18 * 60

	// StepMinutes is the spacing between candidate slot starts.
	StepMinutes = 15

	// DefaultDurationMinutes is used when a service carries no usable duration.
	DefaultDurationMinutes = 50
)

// MinuteOfDay is a clock time expressed as minutes since local midnight.
type MinuteOfDay int

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd MinuteOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// Interval is a reserved half-open time range [Start, End).
type Interval struct {
	Start MinuteOfDay
	End   MinuteOfDay
}

// ConflictsWith reports whether the interval intersects r.
func (i Interval) ConflictsWith(r Interval) bool {
	return Overlaps(i.Start, i.End, r.Start, r.End)
}

// ParseClock parses a 24-hour "HH:MM" clock string. It accepts an optional
// ":SS" suffix, which databases commonly append to TIME columns.
func ParseClock(s string) (MinuteOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return MinuteOfDay(hour*60 + minute), nil
}

// Clock renders the minute as a 24-hour "HH:MM" string.
func (m MinuteOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Label12h renders the minute as a 12-hour "h:mm am/pm" label.
func (m MinuteOfDay) Label12h() string {
	hour := int(m) / 60
	minute := int(m) % 60

	meridiem := "am"
	if hour >= 12 {
		meridiem = "pm"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minute, meridiem)
}

// AvailableSlots returns the start of every grid candidate whose interval
// [s, s+duration) fits inside the operating window and conflicts with none
// of the reserved intervals. Candidates sit on 15-minute boundaries from
// opening; the last feasible start (closing minus duration) is always
// offered even when the duration pushes it off that alignment. The result
// is ordered and deterministic; it is empty when the duration exceeds the
// window.
func AvailableSlots(durationMinutes int, reserved []Interval) []MinuteOfDay {
	if durationMinutes <= 0 {
		durationMinutes = DefaultDurationMinutes
	}
	duration := MinuteOfDay(durationMinutes)
	lastStart := MinuteOfDay(ClosingMinute) - duration

	starts := make([]MinuteOfDay, 0)
	for s := MinuteOfDay(OpeningMinute); s <= lastStart; s += StepMinutes {
		starts = append(starts, s)
	}
	if lastStart >= OpeningMinute && (lastStart-OpeningMinute)%StepMinutes != 0 {
		starts = append(starts, lastStart)
	}

	slots := make([]MinuteOfDay, 0, len(starts))
	for _, start := range starts {
		candidate := Interval{Start: start, End: start + duration}
		conflict := false
		for _, r := range reserved {
			if candidate.ConflictsWith(r) {
				conflict = true
				break
			}
		}
		if !conflict {
			slots = append(slots, start)
		}
	}
	return slots
}
