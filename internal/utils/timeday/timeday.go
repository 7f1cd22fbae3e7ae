// Package timeday compares civil calendar dates in a fixed time zone.
//
// Return eligibility is a day-granularity rule for users in Indonesia, so
// both "now" and the due date are interpreted in WIB (UTC+7) and truncated
// to midnight before comparison, independent of the server's local zone.
package timeday

import "time"

// WIB is Waktu Indonesia Barat, a fixed UTC+7 offset with no DST.
var WIB = time.FixedZone("WIB", 7*60*60)

// CivilDate truncates t to midnight of its calendar day in loc.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysUntil returns the number of whole civil days in loc from now's date to
// due's date. Zero means due today; negative means past due.
func DaysUntil(now, due time.Time, loc *time.Location) int {
	today := CivilDate(now, loc)
	dueDay := CivilDate(due, loc)
	return int(dueDay.Sub(today).Hours() / 24)
}

// SameOrAfterDay reports whether now's civil date in loc is on or after due's.
func SameOrAfterDay(now, due time.Time, loc *time.Location) bool {
	return !CivilDate(now, loc).Before(CivilDate(due, loc))
}

// StartOfDay returns midnight of t's calendar day in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
