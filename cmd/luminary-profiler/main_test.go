package main

import (
	"testing"
	"time"

	"github.com/thurmanmarka/luminary"
)

// TestMeeusMoonRiseSet_AgreesWithLibrary: the unabridged meeus ephemeris
// and the internal truncated one run through the same scan, so their
// crossings must land within a couple of minutes of each other.
func TestMeeusMoonRiseSet_AgreesWithLibrary(t *testing.T) {
	sanDiego := luminary.Coordinates{Lat: 32.82, Lon: -117.10}
	pdt := time.FixedZone("PDT", -7*3600)
	date := time.Date(2019, time.June, 21, 0, 0, 0, 0, pdt)

	gotRise, gotSet := meeusMoonRiseSet(sanDiego, date)
	if gotRise.IsZero() || gotSet.IsZero() {
		t.Fatalf("meeus source found rise=%v set=%v, want both present", gotRise, gotSet)
	}

	mt := luminary.MoonTimesFor(date, sanDiego, luminary.FixedOffset(-7*3600))
	if !mt.Rise.OK || !mt.Set.OK {
		t.Fatal("library found no rise/set to compare against")
	}

	if d := diffMinutes(gotRise, mt.Rise.Time); d > 2 {
		t.Errorf("meeus rise %v vs library %v: off by %.2f min", gotRise, mt.Rise.Time, d)
	}
	if d := diffMinutes(gotSet, mt.Set.Time); d > 2 {
		t.Errorf("meeus set %v vs library %v: off by %.2f min", gotSet, mt.Set.Time, d)
	}
}

func TestRiseSetAt_SourceBodyValidation(t *testing.T) {
	coords := luminary.Coordinates{Lat: 51.9, Lon: 10.43}
	date := time.Date(2019, time.June, 21, 0, 0, 0, 0, time.UTC)

	if _, _, err := riseSetAt("meeus", "sun", coords, date, time.UTC); err == nil {
		t.Error("meeus source accepted body sun, want error")
	}
	if _, _, err := riseSetAt("gosunrise", "moon", coords, date, time.UTC); err == nil {
		t.Error("gosunrise source accepted body moon, want error")
	}
	if _, _, err := riseSetAt("nonsense", "sun", coords, date, time.UTC); err == nil {
		t.Error("unknown source accepted, want error")
	}
}
