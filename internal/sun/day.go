package sun

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/unit"
)

// j0 is the mean offset of solar transit from local midnight, in days.
const j0 = 0.0009

// Day anchors the analytic day-event solver on the solar transit nearest the
// given day count. All threshold crossings for one calendar day derive from
// the same transit, so rise events are exact mirror images of set events.
type Day struct {
	lw   unit.Angle // west longitude
	phi  unit.Angle // observer latitude
	n    float64    // julian cycle number
	m    unit.Angle // mean anomaly at approximate transit
	l    unit.Angle // ecliptic longitude at approximate transit
	dec  unit.Angle // declination at approximate transit
	noon float64    // Julian date of solar transit
}

// NewDay prepares the solver for the julian cycle containing d days since
// J2000, for an observer at lat/lon degrees.
func NewDay(d, lat, lon float64) Day {
	lw := unit.AngleFromDeg(-lon)
	phi := unit.AngleFromDeg(lat)

	n := math.Round(d - j0 - lw.Rad()/(2*math.Pi))
	ds := approxTransit(0, lw, n)

	m := MeanAnomaly(ds)
	l := EclipticLongitude(m)
	dec := Coords(ds).Dec

	return Day{
		lw:   lw,
		phi:  phi,
		n:    n,
		m:    m,
		l:    l,
		dec:  dec,
		noon: transitJD(ds, m, l),
	}
}

// Noon returns the Julian date of solar transit.
func (dy Day) Noon() float64 { return dy.noon }

// Nadir returns the Julian date of the solar nadir, half a day before noon.
func (dy Day) Nadir() float64 { return dy.noon - 0.5 }

// RiseSet returns the Julian dates at which the sun crosses altitude h on
// the way up and on the way down. Both are NaN when the sun never reaches h
// that day (polar day or night for that threshold); the rise is constructed
// by reflecting the set around the transit.
func (dy Day) RiseSet(h unit.Angle) (jRise, jSet float64) {
	w := hourAngle(h, dy.phi, dy.dec)
	jSet = transitJD(approxTransit(w, dy.lw, dy.n), dy.m, dy.l)
	jRise = dy.noon - (jSet - dy.noon)
	return jRise, jSet
}

// approxTransit estimates the day count (since J2000) of the transit offset
// by hour angle Ht within julian cycle n.
func approxTransit(Ht unit.HourAngle, lw unit.Angle, n float64) float64 {
	return j0 + (Ht.Rad()+lw.Rad())/(2*math.Pi) + n
}

// transitJD refines an approximate transit into a Julian date using the
// equation-of-time correction.
func transitJD(ds float64, M, L unit.Angle) float64 {
	return base.J2000 + ds + 0.0053*M.Sin() - 0.0069*math.Sin(2*L.Rad())
}

// hourAngle inverts the altitude formula for the hour angle at which the
// sun sits at altitude h. The acos argument leaves [-1, 1] when the sun
// never reaches h, propagating NaN to the caller.
func hourAngle(h, phi, dec unit.Angle) unit.HourAngle {
	return unit.HourAngle(math.Acos((h.Sin() - phi.Sin()*dec.Sin()) / (phi.Cos() * dec.Cos())))
}
