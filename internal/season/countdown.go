// Package season holds the calendar of the seasonal event.
package season

import "time"

// Countdown is the time remaining until the next holiday.
type Countdown struct {
	Target  time.Time `json:"target"`
	Days    int       `json:"days"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	Seconds int       `json:"seconds"`
}

// NextChristmas returns December 25 of now's year, or of the following
// year once that date has passed.
func NextChristmas(now time.Time) time.Time {
	target := time.Date(now.Year(), time.December, 25, 0, 0, 0, 0, now.Location())
	if now.After(target) {
		target = target.AddDate(1, 0, 0)
	}
	return target
}

// Until computes the countdown from now to the next December 25.
func Until(now time.Time) Countdown {
	target := NextChristmas(now)
	d := target.Sub(now)
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return Countdown{
		Target:  target,
		Days:    secs / 86400,
		Hours:   secs / 3600 % 24,
		Minutes: secs / 60 % 60,
		Seconds: secs % 60,
	}
}
