// Package timeutil maps absolute instants onto the Julian-date axis that
// every ephemeris formula runs on.
package timeutil

import (
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

// ToJulian converts an absolute instant to a Julian date.
func ToJulian(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// FromJulian converts a Julian date back to an absolute instant, rounded to
// the nearest whole second. Rounding (not truncating) keeps repeated
// conversions from drifting a second low.
func FromJulian(j float64) time.Time {
	return julian.JDToTime(j).Round(time.Second)
}

// DaysSinceJ2000 returns the (possibly fractional) number of days between
// the instant and the J2000.0 epoch.
func DaysSinceJ2000(t time.Time) float64 {
	return ToJulian(t) - base.J2000
}

// Centuries converts a day count since J2000 to Julian centuries.
func Centuries(d float64) float64 {
	return d / base.JulianCentury
}
