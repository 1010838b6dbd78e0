package availability

import (
	"time"

	"github.com/gonbot/fisio-scheduler/internal/calendar"
)

// Slot is one bookable time on a given day, annotated with occupancy.
type Slot struct {
	Time  string `json:"time"`
	Taken bool   `json:"taken"`
}

// Window is the derived availability view for one business day. It is
// never persisted; it is recomputed from the current moment on each call.
type Window struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Generator produces the bookable days and slot grid. The clock is
// injected so tests can freeze "now".
type Generator struct {
	cal      *calendar.Calendar
	schedule Schedule
	now      func() time.Time
}

// NewGenerator creates a generator. A nil clock defaults to time.Now.
func NewGenerator(cal *calendar.Calendar, schedule Schedule, now func() time.Time) *Generator {
	if cal == nil {
		panic("availability: calendar required")
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{cal: cal, schedule: schedule, now: now}
}

// Days returns the next count business days, starting strictly after
// the current date.
func (g *Generator) Days(count int) []time.Time {
	return g.cal.NextBusinessDays(g.now(), count)
}

// SlotsFor returns the slot list for a date.
func (g *Generator) SlotsFor(date time.Time) []string {
	return g.schedule.SlotsFor(date)
}

// Schedule exposes the injected slot grid.
func (g *Generator) Schedule() Schedule {
	return g.schedule
}

// IsBookableDay reports whether the date is a business day strictly
// after today. Bookings require one day of advance notice.
func (g *Generator) IsBookableDay(date time.Time) bool {
	today := calendar.Midnight(g.now())
	d := calendar.Midnight(date)
	return d.After(today) && g.cal.IsBusinessDay(d)
}

// Windows builds the availability view for the next count business
// days. taken resolves the occupied slot set for a date; nil means
// fully free.
func (g *Generator) Windows(count int, taken func(date string) map[string]bool) []Window {
	days := g.Days(count)
	windows := make([]Window, 0, len(days))
	for _, day := range days {
		dateStr := day.Format(calendar.DateFormat)
		var occupied map[string]bool
		if taken != nil {
			occupied = taken(dateStr)
		}
		slots := g.schedule.SlotsFor(day)
		window := Window{Date: dateStr, Slots: make([]Slot, 0, len(slots))}
		for _, s := range slots {
			window.Slots = append(window.Slots, Slot{Time: s, Taken: occupied[s]})
		}
		windows = append(windows, window)
	}
	return windows
}
