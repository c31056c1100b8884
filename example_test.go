package luminary_test

import (
	"fmt"
	"time"

	"github.com/thurmanmarka/luminary"
)

// ExampleSunTimesFor demonstrates computing the sun events of a local
// calendar day.
func ExampleSunTimesFor() {
	goslar, err := luminary.NewCoordinates(51.9, 10.43)
	if err != nil {
		panic(err)
	}

	date := time.Date(2019, time.June, 21, 0, 0, 0, 0, time.UTC)
	st := luminary.SunTimesFor(date, goslar, luminary.FixedOffset(2*3600))

	fmt.Println("Sunrise:", st.Sunrise.Time.Format(time.RFC3339))
	fmt.Println("Solar noon:", st.SolarNoon.Time.Format(time.RFC3339))
	fmt.Println("Sunset:", st.Sunset.Time.Format(time.RFC3339))
	// Intentionally no // Output: block so this stays a documentation
	// example and is not validated against model refinements.
}

// ExampleSunPositionAt demonstrates an instantaneous sun position.
func ExampleSunPositionAt() {
	nyc, err := luminary.NewCoordinates(40.7128, -74.0060)
	if err != nil {
		panic(err)
	}

	at := time.Date(2025, time.November, 30, 14, 30, 0, 0, time.UTC)
	pos := luminary.SunPositionAt(at, nyc)

	fmt.Printf("Azimuth: %.2f°, Altitude: %.2f°\n", pos.Azimuth, pos.Altitude)
	// Again, no // Output: so future algorithm changes don't break tests.
}

// ExampleMoonTimesFor demonstrates moonrise/moonset with explicit absence
// handling.
func ExampleMoonTimesFor() {
	sanDiego, err := luminary.NewCoordinates(32.82, -117.10)
	if err != nil {
		panic(err)
	}

	locSD, _ := time.LoadLocation("America/Los_Angeles")
	date := time.Date(2019, time.June, 21, 0, 0, 0, 0, locSD)

	mt := luminary.MoonTimesFor(date, sanDiego, luminary.LocationOffset(locSD))

	if mt.Rise.OK {
		fmt.Println("Moonrise:", mt.Rise.Time.Format(time.RFC3339))
	} else if mt.AlwaysUp {
		fmt.Println("Moon is up all day")
	} else {
		fmt.Println("Moon stays below the horizon")
	}
	if mt.Set.OK {
		fmt.Println("Moonset:", mt.Set.Time.Format(time.RFC3339))
	}
}
