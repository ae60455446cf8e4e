package calories

import "time"

const dateLayout = "2006-01-02"

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AgeOn returns full years between birth and today, counting a birthday
// only once its month and day have been reached.
func AgeOn(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// DeadlineDays counts calendar days until the goal end date, either from the
// goal start date or from today.
func DeadlineDays(start, end, today time.Time, fromStartDate bool) int {
	from := today
	if fromStartDate {
		from = start
	}
	return daysBetween(DateOnly(from), DateOnly(end))
}

func daysBetween(from, to time.Time) int {
	// Both are UTC midnights, so the difference is a whole number of days.
	return int(to.Sub(from).Hours() / 24)
}
