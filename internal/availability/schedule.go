package availability

import "time"

// defaultSlots is the clinic's working schedule: three morning slots and
// five afternoon slots, with the lunch break in between.
var defaultSlots = []string{
	"09:00", "10:00", "11:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

// Schedule maps each weekday to its ordered list of "HH:MM" slots. It is
// injected configuration so the slot grid can vary per weekday without
// code changes.
type Schedule struct {
	byWeekday [7][]string
}

// NewSchedule builds a schedule from a weekday table. Weekdays absent
// from the table have no slots.
func NewSchedule(byWeekday map[time.Weekday][]string) Schedule {
	var s Schedule
	for wd, slots := range byWeekday {
		s.byWeekday[wd] = append([]string(nil), slots...)
	}
	return s
}

// DefaultSchedule returns the standard Monday-to-Saturday grid. Sundays
// are closed.
func DefaultSchedule() Schedule {
	var s Schedule
	for wd := time.Monday; wd <= time.Saturday; wd++ {
		s.byWeekday[wd] = defaultSlots
	}
	return s
}

// SlotsFor returns the ordered slot list for the date's weekday.
func (s Schedule) SlotsFor(date time.Time) []string {
	return append([]string(nil), s.byWeekday[date.Weekday()]...)
}

// HasSlot reports whether hhmm is a valid slot on the date's weekday.
func (s Schedule) HasSlot(date time.Time, hhmm string) bool {
	for _, slot := range s.byWeekday[date.Weekday()] {
		if slot == hhmm {
			return true
		}
	}
	return false
}
