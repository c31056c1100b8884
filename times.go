package luminary

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/luminary/internal/solver"
	"github.com/thurmanmarka/luminary/internal/sun"
	"github.com/thurmanmarka/luminary/internal/timeutil"
)

// SunTimes holds the named sun events of one calendar day. Each event is
// present or absent independently: at high latitudes a day can keep its
// civil twilight while losing the astronomical one, or lose everything but
// noon and nadir.
type SunTimes struct {
	SolarNoon Event `json:"solar_noon"`
	Nadir     Event `json:"nadir"`

	Sunrise     Event `json:"sunrise"`
	Sunset      Event `json:"sunset"`
	SunriseEnd  Event `json:"sunrise_end"`
	SunsetStart Event `json:"sunset_start"`

	CivilDawn        Event `json:"civil_dawn"`
	CivilDusk        Event `json:"civil_dusk"`
	NauticalDawn     Event `json:"nautical_dawn"`
	NauticalDusk     Event `json:"nautical_dusk"`
	AstronomicalDawn Event `json:"astronomical_dawn"`
	AstronomicalDusk Event `json:"astronomical_dusk"`

	GoldenHourEnd Event `json:"golden_hour_end"` // morning, sun climbs past +6°
	GoldenHour    Event `json:"golden_hour"`     // evening, sun drops below +6°

	BlueHourEnd Event `json:"blue_hour_end"` // morning, sun climbs past -4°
	BlueHour    Event `json:"blue_hour"`     // evening, sun drops below -4°
}

// MoonTimes holds the moonrise and moonset of one calendar day. When
// neither crossing occurs in the scanned window, exactly one of AlwaysUp or
// AlwaysDown reports which side of the horizon the moon stayed on.
type MoonTimes struct {
	Rise       Event `json:"rise"`
	Set        Event `json:"set"`
	AlwaysUp   bool  `json:"always_up"`
	AlwaysDown bool  `json:"always_down"`
}

// moonScanStep is the sampling cadence of the moonrise/moonset scan:
// 96 samples across 24 hours. Crossings are good to a few minutes;
// visibility windows much shorter than the step can be missed.
const moonScanStep = 900 * time.Second

// moonHorizonOffsetDeg lowers the scan threshold to the moon's upper limb.
const moonHorizonOffsetDeg = 0.133

// SunTimesFor computes the sun events for the calendar day containing t, as
// seen in the supplied presentation offset. Only the date matters; any
// time-of-day in t yields the same result. A nil offset presents in UTC.
func SunTimesFor(t time.Time, c Coordinates, offset OffsetFunc) SunTimes {
	// Anchor at local noon so the julian cycle resolves to the transit of
	// the requested local date regardless of the time-of-day component.
	anchor := localAnchor(t, offset, 12)
	d := timeutil.DaysSinceJ2000(anchor)
	day := sun.NewDay(d, c.Lat, c.Lon)

	st := SunTimes{
		SolarNoon: presentJD(day.Noon(), offset),
		Nadir:     presentJD(day.Nadir(), offset),
	}

	thresholds := []struct {
		angle     float64
		rise, set *Event
	}{
		{-0.833, &st.Sunrise, &st.Sunset},
		{-0.3, &st.SunriseEnd, &st.SunsetStart},
		{-4, &st.BlueHourEnd, &st.BlueHour},
		{-6, &st.CivilDawn, &st.CivilDusk},
		{-12, &st.NauticalDawn, &st.NauticalDusk},
		{-18, &st.AstronomicalDawn, &st.AstronomicalDusk},
		{6, &st.GoldenHourEnd, &st.GoldenHour},
	}
	for _, th := range thresholds {
		jRise, jSet := day.RiseSet(unit.AngleFromDeg(th.angle))
		*th.rise = presentJD(jRise, offset)
		*th.set = presentJD(jSet, offset)
	}
	return st
}

// Daylight returns the duration between sunrise and sunset, when both
// exist.
func (st SunTimes) Daylight() (time.Duration, bool) {
	if !st.Sunrise.OK || !st.Sunset.OK {
		return 0, false
	}
	return st.Sunset.Time.Sub(st.Sunrise.Time), true
}

// MoonTimesFor computes moonrise and moonset for the calendar day
// containing t, as seen in the supplied presentation offset, by scanning
// the moon's geometric altitude from local midnight across 24 hours. When
// the same crossing type occurs more than once in the window (possible near
// extreme latitudes), the latest one is kept. A nil offset presents in UTC.
func MoonTimesFor(t time.Time, c Coordinates, offset OffsetFunc) MoonTimes {
	start := localAnchor(t, offset, 0)

	altFunc := func(ts time.Time) float64 {
		return moonAltitude(ts, c).Deg()
	}

	rise, set, above := solver.Scan(altFunc, start, 24*time.Hour, moonScanStep, moonHorizonOffsetDeg)

	mt := MoonTimes{
		Rise: presentTime(rise, offset),
		Set:  presentTime(set, offset),
	}
	if !rise.OK && !set.OK {
		mt.AlwaysUp = above
		mt.AlwaysDown = !above
	}
	return mt
}

// localAnchor returns the absolute instant of the given local hour on the
// calendar day containing t, evaluated in the presentation offset.
func localAnchor(t time.Time, offset OffsetFunc, hour int) time.Time {
	off := 0
	if offset != nil {
		off = offset(t)
	}
	local := t.UTC().Add(time.Duration(off) * time.Second)
	y, m, d := local.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC).Add(-time.Duration(off) * time.Second)
}

// presentJD converts a Julian date to a present-or-absent Event. NaN marks
// a threshold the sun never crossed; it becomes an absent event here and
// never escapes as a numerical fault.
func presentJD(j float64, offset OffsetFunc) Event {
	if math.IsNaN(j) {
		return Event{}
	}
	tm := timeutil.FromJulian(j)
	return Event{Time: attachOffset(tm, offset), OK: true}
}

// presentTime attaches the presentation offset to a solver result.
func presentTime(r solver.Result, offset OffsetFunc) Event {
	if !r.OK {
		return Event{}
	}
	return Event{Time: attachOffset(r.Time.Round(time.Second), offset), OK: true}
}

// attachOffset re-labels an instant in the caller's presentation offset
// without moving it.
func attachOffset(tm time.Time, offset OffsetFunc) time.Time {
	if offset == nil {
		return tm.UTC()
	}
	off := offset(tm)
	return tm.In(time.FixedZone(offsetName(off), off))
}

func offsetName(seconds int) string {
	if seconds == 0 {
		return "UTC"
	}
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, seconds/3600, seconds%3600/60)
}
