package calendar

import (
	"sort"
	"sync"
	"time"
)

// DateFormat is the wire format for calendar dates (no time-of-day).
const DateFormat = "2006-01-02"

type monthDay struct {
	month time.Month
	day   int
}

// Holidays observed on the exact date they fall on.
var fixedHolidays = []monthDay{
	{time.January, 1},   // Año Nuevo
	{time.May, 1},       // Día del Trabajo
	{time.July, 20},     // Independencia
	{time.August, 7},    // Batalla de Boyacá
	{time.December, 8},  // Inmaculada Concepción
	{time.December, 25}, // Navidad
}

// Holidays moved to the following Monday under the Emiliani law.
var emilianiHolidays = []monthDay{
	{time.January, 6},   // Reyes Magos
	{time.March, 19},    // San José
	{time.June, 29},     // San Pedro y San Pablo
	{time.August, 15},   // Asunción
	{time.October, 12},  // Día de la Raza
	{time.November, 1},  // Todos los Santos
	{time.November, 11}, // Independencia de Cartagena
}

// Easter computes the date of Easter Sunday for a Gregorian year using
// the Meeus/Jones/Butcher congruence algorithm.
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// shiftToMonday applies the Emiliani rule: dates not already on a Monday
// move forward to the next Monday.
func shiftToMonday(d time.Time) time.Time {
	switch wd := int(d.Weekday()); wd {
	case 1:
		return d
	case 0:
		return d.AddDate(0, 0, 1)
	default:
		return d.AddDate(0, 0, 8-wd)
	}
}

// Midnight normalizes a moment to its plain calendar date (midnight UTC).
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func computeHolidays(year int) []time.Time {
	var days []time.Time

	for _, h := range fixedHolidays {
		days = append(days, time.Date(year, h.month, h.day, 0, 0, 0, 0, time.UTC))
	}
	for _, h := range emilianiHolidays {
		days = append(days, shiftToMonday(time.Date(year, h.month, h.day, 0, 0, 0, 0, time.UTC)))
	}

	easter := Easter(year)
	days = append(days,
		easter.AddDate(0, 0, -3),                // Jueves Santo
		easter.AddDate(0, 0, -2),                // Viernes Santo
		shiftToMonday(easter.AddDate(0, 0, 39)), // Ascensión
		shiftToMonday(easter.AddDate(0, 0, 60)), // Corpus Christi
		shiftToMonday(easter.AddDate(0, 0, 68)), // Sagrado Corazón
	)

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Calendar answers holiday and business-day questions for the Colombian
// regional calendar. Holiday sets are computed once per year and cached.
type Calendar struct {
	mu     sync.Mutex
	byYear map[int]map[string]struct{}
}

// New creates an empty Calendar.
func New() *Calendar {
	return &Calendar{byYear: make(map[int]map[string]struct{})}
}

// HolidaysFor returns the sorted non-working dates for a year.
func (c *Calendar) HolidaysFor(year int) []time.Time {
	set := c.yearSet(year)
	days := make([]time.Time, 0, len(set))
	for key := range set {
		d, err := time.ParseInLocation(DateFormat, key, time.UTC)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// IsHoliday reports whether the given moment falls on a holiday.
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.yearSet(t.Year())[t.Format(DateFormat)]
	return ok
}

// IsBusinessDay reports whether the date is bookable: not a Sunday and
// not a holiday.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	return t.Weekday() != time.Sunday && !c.IsHoliday(t)
}

// NextBusinessDays returns the next count business days strictly after
// from. Holidays are resolved for from's year and the next one so the
// sequence stays correct across a year boundary.
func (c *Calendar) NextBusinessDays(from time.Time, count int) []time.Time {
	c.yearSet(from.Year())
	c.yearSet(from.Year() + 1)

	days := make([]time.Time, 0, count)
	d := Midnight(from).AddDate(0, 0, 1)
	for len(days) < count {
		if c.IsBusinessDay(d) {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

func (c *Calendar) yearSet(year int) map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if set, ok := c.byYear[year]; ok {
		return set
	}
	set := make(map[string]struct{})
	for _, d := range computeHolidays(year) {
		set[d.Format(DateFormat)] = struct{}{}
	}
	c.byYear[year] = set
	return set
}
