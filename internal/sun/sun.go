// Package sun computes the position of the sun from a day count since J2000
// and solves for the times at which it crosses named altitude thresholds.
//
// The ephemeris is the standard low-precision closed-form model: mean
// anomaly, equation of center, fixed perihelion argument. The sun's own
// ecliptic latitude (~1e-5 degrees) is ignored on purpose.
package sun

import (
	"math"

	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/luminary/internal/transform"
)

// perihelion is the argument of perihelion of the Earth.
var perihelion = unit.AngleFromDeg(102.9372)

// MeanAnomaly returns the sun's mean anomaly for d days since J2000.
func MeanAnomaly(d float64) unit.Angle {
	return unit.AngleFromDeg(357.5291 + 0.98560028*d)
}

// EclipticLongitude returns the sun's ecliptic longitude for mean anomaly M,
// applying the equation of center.
func EclipticLongitude(M unit.Angle) unit.Angle {
	C := unit.AngleFromDeg(1.9148*M.Sin() + 0.02*math.Sin(2*M.Rad()) + 0.0003*math.Sin(3*M.Rad()))
	return M + C + perihelion + unit.Angle(math.Pi)
}

// Coords returns the geocentric equatorial coordinates of the sun for d days
// since J2000.
func Coords(d float64) transform.Equatorial {
	L := EclipticLongitude(MeanAnomaly(d))
	return transform.EquatorialFromEcliptic(L, 0)
}
