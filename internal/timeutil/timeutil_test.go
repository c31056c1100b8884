package timeutil

import (
	"math"
	"testing"
	"time"
)

func TestToJulian_J2000(t *testing.T) {
	// J2000.0 epoch: 2000-01-01 12:00:00 UTC = JD 2451545.0
	epoch := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

	if got := ToJulian(epoch); math.Abs(got-2451545.0) > 1e-9 {
		t.Errorf("ToJulian(J2000) = %.9f, want 2451545.0", got)
	}
	if got := DaysSinceJ2000(epoch); math.Abs(got) > 1e-9 {
		t.Errorf("DaysSinceJ2000(J2000) = %.9f, want 0", got)
	}
}

func TestJulianRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
	}{
		{"epoch", time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)},
		{"winter solstice 2018", time.Date(2018, time.December, 21, 8, 0, 0, 0, time.UTC)},
		{"summer solstice 2019", time.Date(2019, time.June, 21, 16, 0, 0, 0, time.UTC)},
		{"pre-epoch", time.Date(1992, time.April, 12, 0, 0, 0, 0, time.UTC)},
		{"odd seconds", time.Date(2025, time.November, 30, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromJulian(ToJulian(tt.in))
			diff := got.Sub(tt.in)
			if diff < 0 {
				diff = -diff
			}
			if diff > time.Second {
				t.Errorf("round trip drifted %v (got %v, want %v)", diff, got, tt.in)
			}
		})
	}
}

func TestFromJulian_RoundsToNearestSecond(t *testing.T) {
	// 0.6 s past an exact second must round up, not truncate down.
	base := time.Date(2019, time.June, 21, 12, 0, 0, 0, time.UTC)
	j := ToJulian(base) + 0.6/86400

	got := FromJulian(j)
	want := base.Add(time.Second)
	if !got.Equal(want) {
		t.Errorf("FromJulian rounded to %v, want %v", got, want)
	}
}

func TestCenturies(t *testing.T) {
	if got := Centuries(36525); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Centuries(36525) = %v, want 1", got)
	}
}
