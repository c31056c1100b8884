// Package luminary computes the apparent position of the sun and moon for
// an arbitrary instant and geographic location, and the local times at
// which they cross defined altitude thresholds: sunrise and sunset, the
// civil, nautical and astronomical twilights, solar noon and nadir, and
// moonrise and moonset.
//
// Everything is a pure mapping from inputs to outputs. There is no shared
// state, so every function is safe to call concurrently. Timezone handling
// stays with the caller: computations run on absolute instants, and an
// optional OffsetFunc only attaches a presentation offset to results.
package luminary

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/luminary/internal/moon"
	"github.com/thurmanmarka/luminary/internal/sun"
	"github.com/thurmanmarka/luminary/internal/timeutil"
	"github.com/thurmanmarka/luminary/internal/transform"
)

var (
	// ErrLatitudeRange is returned when a latitude falls outside [-90, 90].
	ErrLatitudeRange = errors.New("latitude out of range [-90, 90]")

	// ErrLongitudeRange is returned when a longitude falls outside [-180, 180].
	ErrLongitudeRange = errors.New("longitude out of range [-180, 180]")
)

// Coordinates represent an observer's location in degrees, north and east
// positive.
type Coordinates struct {
	Lat float64
	Lon float64
}

// NewCoordinates validates an observer location. Out-of-range values are a
// construction-time error, never a NaN surfacing later in a formula.
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrLatitudeRange, lat)
	}
	if lon < -180 || lon > 180 {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrLongitudeRange, lon)
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}

// OffsetFunc supplies the UTC offset, in seconds, to present an instant in.
// It must be a pure function; the library only uses it to pick the calendar
// day and to label output instants, never to shift the computed instant.
type OffsetFunc func(time.Time) int

// FixedOffset returns an OffsetFunc for a constant UTC offset in seconds.
func FixedOffset(seconds int) OffsetFunc {
	return func(time.Time) int { return seconds }
}

// LocationOffset returns an OffsetFunc backed by a time.Location. The
// offset can vary per instant (DST), which is fine: the function stays pure.
func LocationOffset(loc *time.Location) OffsetFunc {
	return func(t time.Time) int {
		_, off := t.In(loc).Zone()
		return off
	}
}

// SunPosition is the sun's place on the local sky, degrees, azimuth
// measured from north, clockwise.
type SunPosition struct {
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`
}

// MoonPosition is the moon's place on the local sky, with its distance in
// whole kilometers and the parallactic angle of its disk.
type MoonPosition struct {
	Azimuth          float64 `json:"azimuth"`
	Altitude         float64 `json:"altitude"`
	ParallacticAngle float64 `json:"parallactic_angle"`
	Distance         int     `json:"distance_km"`
}

// Event is an instant that may not exist on a given day. OK is false when
// the corresponding altitude threshold is never crossed (polar day or
// night, or a moon visibility window shorter than the scan can resolve).
type Event struct {
	Time time.Time `json:"time"`
	OK   bool      `json:"ok"`
}

// SunPositionAt returns the sun's azimuth and altitude for an observer at c
// at instant t, rounded to two decimals.
func SunPositionAt(t time.Time, c Coordinates) SunPosition {
	az, alt := sunHorizontal(t, c)
	return SunPosition{
		Azimuth:  round2(az.Deg()),
		Altitude: round2(alt.Deg()),
	}
}

// MoonPositionAt returns the moon's azimuth, refraction-corrected altitude,
// parallactic angle and distance for an observer at c at instant t. Angles
// are rounded to two decimals; the distance is a whole kilometer count.
func MoonPositionAt(t time.Time, c Coordinates) MoonPosition {
	az, alt, pa, dist := moonHorizontal(t, c)
	return MoonPosition{
		Azimuth:          round2(az.Deg()),
		Altitude:         round2(alt.Deg()),
		ParallacticAngle: round2(pa.Deg()),
		Distance:         int(dist),
	}
}

// sunHorizontal is the unrounded position used by both the public position
// accessor and tests. Rounding happens only at the boundary so repeated
// evaluation in solvers does not compound rounding error.
func sunHorizontal(t time.Time, c Coordinates) (az, alt unit.Angle) {
	d := timeutil.DaysSinceJ2000(t)
	lw := unit.AngleFromDeg(-c.Lon)
	phi := unit.AngleFromDeg(c.Lat)

	eq := sun.Coords(d)
	H := transform.HourAngle(d, lw, eq.RA)

	return transform.Azimuth(H, phi, eq.Dec), transform.Altitude(H, phi, eq.Dec)
}

// moonHorizontal is the unrounded moon position. Refraction is applied to
// the altitude only; azimuth and parallactic angle stay geometric.
func moonHorizontal(t time.Time, c Coordinates) (az, alt, pa unit.Angle, distKm float64) {
	d := timeutil.DaysSinceJ2000(t)
	lw := unit.AngleFromDeg(-c.Lon)
	phi := unit.AngleFromDeg(c.Lat)

	eq, dist := moon.Equatorial(d)
	H := transform.HourAngle(d, lw, eq.RA)

	alt = transform.Altitude(H, phi, eq.Dec)
	alt += transform.Refraction(alt)

	return transform.Azimuth(H, phi, eq.Dec), alt, transform.ParallacticAngle(H, phi, eq.Dec), dist
}

// moonAltitude is the geometric altitude of the moon's center, without
// refraction. The rise/set scan works on this quantity: refraction is a
// presentation correction for reported positions, and folding it into the
// scanned altitude drags the crossings minutes away from the horizon.
func moonAltitude(t time.Time, c Coordinates) unit.Angle {
	d := timeutil.DaysSinceJ2000(t)
	lw := unit.AngleFromDeg(-c.Lon)
	phi := unit.AngleFromDeg(c.Lat)

	eq, _ := moon.Equatorial(d)
	H := transform.HourAngle(d, lw, eq.RA)
	return transform.Altitude(H, phi, eq.Dec)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
