package luminary

import (
	"math"
	"time"

	"github.com/thurmanmarka/luminary/internal/moon"
	"github.com/thurmanmarka/luminary/internal/sun"
	"github.com/thurmanmarka/luminary/internal/timeutil"
	"github.com/thurmanmarka/luminary/internal/transform"
)

// sunDistanceKm is the mean Earth-sun distance, used for the illumination
// geometry where the sun's daily distance variation is negligible.
const sunDistanceKm = 149598000

// MoonIllumination describes the sunlit side of the moon at an instant.
// Phase runs from 0 (new) through 0.5 (full) back toward 1 (new again);
// Angle is the midpoint angle of the bright limb, radians, counterclockwise
// positive (a negative value means the waxing side is lit).
type MoonIllumination struct {
	Fraction float64 `json:"fraction"`
	Phase    float64 `json:"phase"`
	Angle    float64 `json:"angle"`
}

// MoonIlluminationAt computes the moon's illuminated fraction, phase and
// bright-limb angle at instant t. Illumination is a global property, so no
// observer location is involved.
func MoonIlluminationAt(t time.Time) MoonIllumination {
	d := timeutil.DaysSinceJ2000(t)
	s := sun.Coords(d)
	mlon, mlat, mdist := moon.Coords(d)
	m := transform.EquatorialFromEcliptic(mlon, mlat)

	dRA := s.RA.Rad() - m.RA.Rad()
	phi := math.Acos(s.Dec.Sin()*m.Dec.Sin() + s.Dec.Cos()*m.Dec.Cos()*math.Cos(dRA))
	inc := math.Atan2(sunDistanceKm*math.Sin(phi), mdist-sunDistanceKm*math.Cos(phi))
	angle := math.Atan2(s.Dec.Cos()*math.Sin(dRA),
		s.Dec.Sin()*m.Dec.Cos()-s.Dec.Cos()*m.Dec.Sin()*math.Cos(dRA))

	return MoonIllumination{
		Fraction: (1 + math.Cos(inc)) / 2,
		Phase:    0.5 + 0.5*inc*math.Copysign(1, angle)/math.Pi,
		Angle:    angle,
	}
}

// Waxing reports whether the illuminated fraction is increasing.
func (mi MoonIllumination) Waxing() bool {
	return mi.Phase < 0.5
}

// PhaseName returns a human-readable name for the phase.
func (mi MoonIllumination) PhaseName() string {
	const (
		eps        = 0.01 // near 0 or 1
		quarterTol = 0.05 // fraction window around 0.5
	)

	f := mi.Fraction
	waxing := mi.Waxing()

	switch {
	case f < eps:
		return "New Moon"
	case f > 1-eps:
		return "Full Moon"
	case math.Abs(f-0.5) < quarterTol:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case f < 0.5:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
