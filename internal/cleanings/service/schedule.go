package service

import (
	"strings"
	"time"

	"stayclean_backend/internal/cleanings/repository"
)

// weekdayCodes maps time.Weekday numbering to the legacy three-letter codes.
var weekdayCodes = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// WorksOn reports whether the membership is scheduled to work on the given
// calendar date. An explicit schedule row for the weekday wins over the
// legacy day-code list; a membership with neither is treated as working
// every day, which keeps pre-migration data assignable. The fallback chain
// always resolves to a boolean.
func WorksOn(m repository.Membership, date time.Time) bool {
	weekday := int(date.Weekday())

	for _, day := range m.ScheduleDays {
		if day.Weekday == weekday {
			return day.IsWorking
		}
	}

	if len(m.WorkingDayCodes) == 0 {
		return true
	}

	for _, code := range m.WorkingDayCodes {
		if strings.EqualFold(strings.TrimSpace(code), weekdayCodes[weekday]) {
			return true
		}
	}
	return false
}

// FormatWorkingDays renders a membership's schedule as a short human-readable
// list ("Mon, Wed, Fri"), used in attention reason details. Memberships
// without schedule data render as working every day.
func FormatWorkingDays(m repository.Membership) string {
	names := make([]string, 0, 7)
	for weekday := 0; weekday < 7; weekday++ {
		// Probe each weekday through the same resolution chain the
		// evaluator uses, so the rendered schedule never disagrees
		// with eligibility.
		probe := time.Date(2024, time.September, 1+weekday, 12, 0, 0, 0, time.UTC) // 2024-09-01 is a Sunday
		if WorksOn(m, probe) {
			names = append(names, shortDayNames[weekday])
		}
	}
	if len(names) == 7 {
		return "every day"
	}
	if len(names) == 0 {
		return "no working days"
	}
	return strings.Join(names, ", ")
}

var shortDayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
