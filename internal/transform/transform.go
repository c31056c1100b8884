// Package transform holds the coordinate conversions shared by the sun and
// moon engines: ecliptic to equatorial, sidereal time, and equatorial to
// horizontal. Keeping a single implementation guarantees azimuth/altitude
// consistency between bodies.
package transform

import (
	"math"

	"github.com/soniakeys/unit"
)

// Obliquity is the fixed mean obliquity of the ecliptic used throughout.
var Obliquity = unit.AngleFromDeg(23.4397)

// Equatorial holds geocentric equatorial coordinates. These never cross the
// public boundary; they exist only between the ephemeris and the horizontal
// transform.
type Equatorial struct {
	RA  unit.RA
	Dec unit.Angle
}

// EquatorialFromEcliptic converts ecliptic longitude and latitude to
// equatorial coordinates using the fixed obliquity.
func EquatorialFromEcliptic(lon, lat unit.Angle) Equatorial {
	sl, cl := lon.Sincos()
	sb, cb := lat.Sincos()
	se, ce := Obliquity.Sincos()
	return Equatorial{
		RA:  unit.RAFromRad(math.Atan2(sl*ce-lat.Tan()*se, cl)),
		Dec: unit.Angle(math.Asin(sb*ce + cb*se*sl)),
	}
}

// Sidereal returns the local mean sidereal time for d days since J2000 at
// west longitude lw, per formula 12.4 of Meeus, Astronomical Algorithms
// (2nd ed).
func Sidereal(d float64, lw unit.Angle) unit.Angle {
	return unit.AngleFromDeg(280.46061837+360.98564736629*d) - lw
}

// HourAngle returns the local hour angle of a body: sidereal time minus
// right ascension.
func HourAngle(d float64, lw unit.Angle, ra unit.RA) unit.HourAngle {
	return unit.HourAngle(Sidereal(d, lw).Rad() - ra.Rad())
}

// Azimuth returns the azimuth of a body at hour angle H for an observer at
// latitude phi, measured from north, clockwise positive.
func Azimuth(H unit.HourAngle, phi, dec unit.Angle) unit.Angle {
	return unit.Angle(math.Atan2(H.Sin(), H.Cos()*phi.Sin()-dec.Tan()*phi.Cos()) + math.Pi)
}

// Altitude returns the altitude of a body above the horizon at hour angle H
// for an observer at latitude phi.
func Altitude(H unit.HourAngle, phi, dec unit.Angle) unit.Angle {
	return unit.Angle(math.Asin(phi.Sin()*dec.Sin() + phi.Cos()*dec.Cos()*H.Cos()))
}

// ParallacticAngle returns the parallactic angle of a body, the angle
// between the celestial pole and the local zenith as seen from the body.
func ParallacticAngle(H unit.HourAngle, phi, dec unit.Angle) unit.Angle {
	return unit.Angle(math.Atan2(H.Sin(), phi.Tan()*dec.Cos()-dec.Sin()*H.Cos()))
}

// Refraction returns the atmospheric refraction to add to a geometric
// altitude h, per formula 16.4 of Meeus, Astronomical Algorithms (2nd ed).
// The formula holds for positive altitudes only; below the horizon it is
// evaluated at h = 0, yielding a fixed correction rather than a divergent
// one (the value at h = -0.08901179 rad would divide by zero).
func Refraction(h unit.Angle) unit.Angle {
	if h < 0 {
		h = 0
	}
	return unit.Angle(0.0002967 / math.Tan(h.Rad()+0.00312536/(h.Rad()+0.08901179)))
}
