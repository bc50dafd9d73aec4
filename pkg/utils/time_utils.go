package utils

import "time"

// Tashkent time (UZT, +05:00); all billing windows are computed in it.
var uzLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Tashkent"); err == nil {
		return loc
	}
	return time.FixedZone("UZT", 5*3600)
}()

func NowUnixSeconds() int64 { return time.Now().Unix() }

func FromUnixSecondsUZ(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(uzLoc)
}

// DaysInMonth returns the calendar length of t's month (29 for February 2024).
// Used as the renewal fallback when a plan carries no explicit duration.
func DaysInMonth(t time.Time) int {
	t = t.In(uzLoc)
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, uzLoc)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

func FormatRFC3339UZ(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(uzLoc).Format(time.RFC3339)
}
