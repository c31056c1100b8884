// Package solver finds altitude threshold crossings for bodies whose
// position has no closed-form inverse, by sampling at a fixed cadence and
// interpolating linearly between the bracketing samples.
package solver

import (
	"math"
	"time"
)

// AltitudeFunc returns a body's altitude in degrees at time t.
type AltitudeFunc func(t time.Time) float64

// Result holds one crossing of an altitude scan.
type Result struct {
	Time time.Time
	OK   bool // false when no crossing of this type occurred in the window
}

// Scan samples f at the given step across [start, start+window], tracking
// the sign of altitude - threshold. An upward sign change is a rise, a
// downward one a set; the crossing instant is interpolated linearly within
// the bracketing step. When the same crossing type occurs more than once in
// the window, the latest one wins. aboveAtStart reports which side of the
// threshold the body started on, for callers that need to distinguish
// "always up" from "always down" when no crossing is found.
//
// Accuracy is bounded by the step: crossings land within a few minutes of
// truth, and visibility windows much shorter than the step can be missed
// entirely.
func Scan(f AltitudeFunc, start time.Time, window, step time.Duration, threshold float64) (rise, set Result, aboveAtStart bool) {
	h0 := f(start) - threshold
	aboveAtStart = h0 > 0

	n := int(window / step)
	for i := 1; i <= n; i++ {
		t1 := start.Add(time.Duration(i) * step)
		h1 := f(t1) - threshold

		if h0 < 0 && h1 >= 0 {
			rise = Result{Time: interpolate(t1.Add(-step), h0, h1, step), OK: true}
		} else if h0 > 0 && h1 <= 0 {
			set = Result{Time: interpolate(t1.Add(-step), h0, h1, step), OK: true}
		}
		h0 = h1
	}
	return rise, set, aboveAtStart
}

// interpolate places the crossing within [t0, t0+step] proportionally to
// where the zero falls between the sampled values.
func interpolate(t0 time.Time, h0, h1 float64, step time.Duration) time.Time {
	frac := math.Abs(h0 / (h0 - h1))
	return t0.Add(time.Duration(frac * float64(step)))
}
