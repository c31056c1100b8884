// Package moon computes the geocentric position of the moon from the
// truncated ELP2000-82B periodic series of chapter 47 of Meeus,
// Astronomical Algorithms (2nd ed). Nutation is intentionally omitted and
// instants are taken as UT; the resulting error is far below the accuracy
// of the rise/set scan built on top.
package moon

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/luminary/internal/transform"
)

// meanDistanceKm is the constant part of the Earth-moon distance series.
const meanDistanceKm = 385000.56

// Coords returns the geocentric ecliptic longitude and latitude of the moon
// and its distance in kilometers, for d days since J2000.
func Coords(d float64) (lon, lat unit.Angle, distKm float64) {
	return position(d / base.JulianCentury)
}

// Equatorial returns the geocentric equatorial coordinates and distance of
// the moon for d days since J2000.
func Equatorial(d float64) (transform.Equatorial, float64) {
	lon, lat, dist := Coords(d)
	return transform.EquatorialFromEcliptic(lon, lat), dist
}

// position evaluates the series at T Julian centuries since J2000.
func position(T float64) (lon, lat unit.Angle, distKm float64) {
	// Fundamental arguments, Meeus 47.1 through 47.5, degrees.
	lp := reduced(base.Horner(T, 218.3164477, 481267.88123421, -0.0015786, 1/538841.0, -1/65194000.0))
	d := reduced(base.Horner(T, 297.8501921, 445267.1114034, -0.0018819, 1/545868.0, -1/113065000.0))
	m := reduced(base.Horner(T, 357.5291092, 35999.0502909, -0.0001536, 1/24490000.0))
	mp := reduced(base.Horner(T, 134.9633964, 477198.8675055, 0.0087414, 1/69699.0, -1/14712000.0))
	f := reduced(base.Horner(T, 93.272095, 483202.0175233, -0.0036539, -1/3526000.0, 1/863310000.0))

	a1 := reduced(119.75 + 131.849*T)
	a2 := reduced(53.09 + 479264.29*T)
	a3 := reduced(313.45 + 481266.484*T)
	e := base.Horner(T, 1, -0.002516, -0.0000074)

	var sl, sr, sb float64
	for _, t := range lonDistTerms {
		arg := float64(t.d)*d.Rad() + float64(t.m)*m.Rad() +
			float64(t.mp)*mp.Rad() + float64(t.f)*f.Rad()
		scale := eccentricityScale(t.m, e)
		sl += t.sl * scale * math.Sin(arg)
		sr += t.sr * scale * math.Cos(arg)
	}
	for _, t := range latTerms {
		arg := float64(t.d)*d.Rad() + float64(t.m)*m.Rad() +
			float64(t.mp)*mp.Rad() + float64(t.f)*f.Rad()
		sb += t.sb * eccentricityScale(t.m, e) * math.Sin(arg)
	}

	// Additive corrections for Venus (A1), Jupiter (A2) and the flattening
	// of the Earth.
	sl += 3958*a1.Sin() + 1962*math.Sin(lp.Rad()-f.Rad()) + 318*a2.Sin()
	sb += -2235*lp.Sin() + 382*a3.Sin() +
		175*math.Sin(a1.Rad()-f.Rad()) + 175*math.Sin(a1.Rad()+f.Rad()) +
		127*math.Sin(lp.Rad()-mp.Rad()) - 115*math.Sin(lp.Rad()+mp.Rad())

	lon = lp + unit.AngleFromDeg(sl*1e-6)
	lat = unit.AngleFromDeg(sb * 1e-6)
	distKm = meanDistanceKm + sr*1e-3
	return lon, lat, distKm
}

// reduced converts a degree-valued polynomial result to an angle in
// [0, 360).
func reduced(deg float64) unit.Angle {
	return unit.AngleFromDeg(deg).Mod1()
}
