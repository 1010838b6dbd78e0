package calendar

import (
	"fmt"
	"time"
)

var spanishDays = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
}

var spanishMonths = [...]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// WeekdayES returns the Spanish weekday name for a date.
func WeekdayES(t time.Time) string {
	return spanishDays[t.Weekday()]
}

// FormatLongES renders a date the way patients read it in chat,
// e.g. "Lunes, 24 de noviembre de 2025".
func FormatLongES(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d", spanishDays[t.Weekday()], t.Day(), spanishMonths[t.Month()], t.Year())
}
