package luminary

import (
	"math"
	"testing"
	"time"
)

// TestMoonIlluminationAt_KnownPhases checks the fraction near published
// new/full moon instants.
func TestMoonIlluminationAt_KnownPhases(t *testing.T) {
	tests := []struct {
		name         string
		at           time.Time
		wantFraction float64
		tol          float64
	}{
		// Full moon 2019-06-17 08:31 UTC.
		{"full moon", time.Date(2019, time.June, 17, 8, 31, 0, 0, time.UTC), 1.0, 0.02},
		// New moon 2019-07-02 19:16 UTC.
		{"new moon", time.Date(2019, time.July, 2, 19, 16, 0, 0, time.UTC), 0.0, 0.02},
		// First quarter 2019-06-10 05:59 UTC.
		{"first quarter", time.Date(2019, time.June, 10, 5, 59, 0, 0, time.UTC), 0.5, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mi := MoonIlluminationAt(tt.at)
			if math.Abs(mi.Fraction-tt.wantFraction) > tt.tol {
				t.Errorf("Fraction = %.4f, want %.2f ± %.2f", mi.Fraction, tt.wantFraction, tt.tol)
			}
		})
	}
}

func TestMoonIlluminationAt_PhaseDirection(t *testing.T) {
	// Between new moon (Jul 2) and full moon (Jul 16) 2019 the moon waxes.
	waxing := MoonIlluminationAt(time.Date(2019, time.July, 9, 12, 0, 0, 0, time.UTC))
	if !waxing.Waxing() {
		t.Errorf("phase %.3f a week after new moon, want waxing", waxing.Phase)
	}

	// Between full (Jun 17) and new (Jul 2) it wanes.
	waning := MoonIlluminationAt(time.Date(2019, time.June, 24, 12, 0, 0, 0, time.UTC))
	if waning.Waxing() {
		t.Errorf("phase %.3f a week after full moon, want waning", waning.Phase)
	}
}

func TestMoonIllumination_PhaseNameBuckets(t *testing.T) {
	tests := []struct {
		name string
		mi   MoonIllumination
		want string
	}{
		{"new", MoonIllumination{Fraction: 0.001, Phase: 0.01}, "New Moon"},
		{"full", MoonIllumination{Fraction: 0.999, Phase: 0.5}, "Full Moon"},
		{"first quarter", MoonIllumination{Fraction: 0.5, Phase: 0.25}, "First Quarter"},
		{"last quarter", MoonIllumination{Fraction: 0.5, Phase: 0.75}, "Last Quarter"},
		{"waxing crescent", MoonIllumination{Fraction: 0.2, Phase: 0.15}, "Waxing Crescent"},
		{"waning gibbous", MoonIllumination{Fraction: 0.8, Phase: 0.6}, "Waning Gibbous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mi.PhaseName(); got != tt.want {
				t.Errorf("PhaseName() = %q, want %q", got, tt.want)
			}
		})
	}
}
