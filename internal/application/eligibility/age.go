package eligibility

import "time"

// AgeOn returns completed years between dob and asOf, calendar-aware: a
// birthday later in the year than asOf has not happened yet. Dates are
// compared in asOf's location.
func AgeOn(dob, asOf time.Time) int {
	dob = dob.In(asOf.Location())
	age := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		age--
	}
	return age
}
