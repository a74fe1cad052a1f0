// Package calendar lays appointments out on Monday-based weeks with German
// day names and the Austrian public holidays of 2025.
package calendar

import (
	"lifemate/cmd/internal/domain/entity"
	"lifemate/cmd/internal/utils"
	"sort"
	"time"
)

const (
	LabelLayout = "02.01.2006"
	DateLayout  = "2006-01-02"
)

var weekdays = [7]string{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"}

// Keyed by LabelLayout. Only 2025 is known.
var holidays = map[string]string{
	"01.01.2025": "Neujahr",
	"06.01.2025": "Heilige Drei Könige",
	"31.03.2025": "Ostermontag",
	"01.05.2025": "Staatsfeiertag",
	"15.08.2025": "Mariä Himmelfahrt",
	"26.10.2025": "Nationalfeiertag",
	"01.11.2025": "Allerheiligen",
	"08.12.2025": "Mariä Empfängnis",
	"25.12.2025": "Weihnachten",
	"26.12.2025": "Stefanitag",
}

type Entry struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Text string `json:"text"`
}

type Day struct {
	Date         string   `json:"date"`
	Label        string   `json:"label"`
	Weekday      string   `json:"weekday"`
	Holiday      string   `json:"holiday,omitempty"`
	IsToday      bool     `json:"is_today"`
	Appointments []*Entry `json:"appointments"`
}

type Week struct {
	Offset int    `json:"offset"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Days   []*Day `json:"days"`
}

// WeekdayName returns the German name of t's weekday.
func WeekdayName(t time.Time) string {
	// time.Weekday starts on Sunday
	return weekdays[(int(t.Weekday())+6)%7]
}

func Holiday(t time.Time) (string, bool) {
	name, ok := holidays[t.Format(LabelLayout)]
	return name, ok
}

// StartOfWeek returns midnight of the Monday on or before t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	back := (int(t.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -back)
}

type datedEntry struct {
	at    time.Time
	entry *Entry
}

// Build lays appts out on the week that is offset weeks away from the week
// containing today. Appointments whose date cannot be read are left out.
func Build(today time.Time, offset int, appts []*entity.Appointment, loc *time.Location) *Week {
	today = today.In(loc)
	start := StartOfWeek(today.AddDate(0, 0, 7*offset))

	dated := make([]datedEntry, 0, len(appts))
	for _, appt := range appts {
		at, ok := utils.ParseDate(appt.Date, loc)
		if !ok {
			continue
		}
		dated = append(dated, datedEntry{at: at, entry: &Entry{ID: appt.ID, Date: appt.Date, Text: appt.Text}})
	}
	sort.Slice(dated, func(i, j int) bool {
		a, b := dated[i], dated[j]
		if !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		if a.entry.Text != b.entry.Text {
			return a.entry.Text < b.entry.Text
		}
		return a.entry.ID < b.entry.ID
	})

	days := make([]*Day, 7)
	for i := range days {
		date := start.AddDate(0, 0, i)
		day := &Day{
			Date:         date.Format(DateLayout),
			Label:        date.Format(LabelLayout),
			Weekday:      WeekdayName(date),
			IsToday:      utils.SameDay(date, today, loc),
			Appointments: []*Entry{},
		}
		day.Holiday, _ = Holiday(date)

		for _, d := range dated {
			if utils.SameDay(d.at, date, loc) {
				day.Appointments = append(day.Appointments, d.entry)
			}
		}
		days[i] = day
	}

	return &Week{
		Offset: offset,
		Start:  days[0].Label,
		End:    days[6].Label,
		Days:   days,
	}
}
