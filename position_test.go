package luminary_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/thurmanmarka/luminary"
)

// Position tolerances against published ephemeris values.
const (
	positionToleranceDeg = 1.0
	distanceToleranceKm  = 100
)

// TestSunPositionAt_Goslar compares against reference ephemeris values for
// Goslar, Germany on 2018-12-21 09:00 CET:
//
//	azimuth ≈ 136.0°, altitude ≈ 3.3°
func TestSunPositionAt_Goslar(t *testing.T) {
	goslar := luminary.Coordinates{Lat: 51.9, Lon: 10.43}
	at := time.Date(2018, time.December, 21, 9, 0, 0, 0, time.FixedZone("CET", 3600))

	pos := luminary.SunPositionAt(at, goslar)

	if got := math.Abs(pos.Azimuth - 136.0); got > positionToleranceDeg {
		t.Errorf("sun azimuth = %.2f°, want 136.0° ± %.0f°", pos.Azimuth, positionToleranceDeg)
	}
	if got := math.Abs(pos.Altitude - 3.3); got > positionToleranceDeg {
		t.Errorf("sun altitude = %.2f°, want 3.3° ± %.0f°", pos.Altitude, positionToleranceDeg)
	}
}

// TestMoonPositionAt_SanDiego compares against reference ephemeris values
// for San Diego on 2018-12-21 09:00 PST (UTC-8):
//
//	azimuth ≈ 329.5°, altitude ≈ -31.8°, distance ≈ 367007 km
func TestMoonPositionAt_SanDiego(t *testing.T) {
	sanDiego := luminary.Coordinates{Lat: 32.82, Lon: -117.10}
	at := time.Date(2018, time.December, 21, 9, 0, 0, 0, time.FixedZone("PST", -8*3600))

	pos := luminary.MoonPositionAt(at, sanDiego)

	if got := math.Abs(pos.Azimuth - 329.5); got > positionToleranceDeg {
		t.Errorf("moon azimuth = %.2f°, want 329.5° ± %.0f°", pos.Azimuth, positionToleranceDeg)
	}
	if got := math.Abs(pos.Altitude - (-31.8)); got > positionToleranceDeg {
		t.Errorf("moon altitude = %.2f°, want -31.8° ± %.0f°", pos.Altitude, positionToleranceDeg)
	}
	if got := math.Abs(float64(pos.Distance - 367007)); got > distanceToleranceKm {
		t.Errorf("moon distance = %d km, want 367007 ± %d km", pos.Distance, distanceToleranceKm)
	}
}

// TestPositions_RangeInvariants sweeps a grid of locations and instants and
// checks the documented output ranges.
func TestPositions_RangeInvariants(t *testing.T) {
	instants := []time.Time{
		time.Date(2018, time.December, 21, 9, 0, 0, 0, time.UTC),
		time.Date(2019, time.June, 21, 18, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 20, 3, 30, 0, 0, time.UTC),
	}

	for _, at := range instants {
		for lat := -80.0; lat <= 80; lat += 40 {
			for lon := -150.0; lon <= 150; lon += 75 {
				c, err := luminary.NewCoordinates(lat, lon)
				if err != nil {
					t.Fatalf("NewCoordinates(%v, %v): %v", lat, lon, err)
				}

				sp := luminary.SunPositionAt(at, c)
				if sp.Azimuth < -360 || sp.Azimuth > 360 {
					t.Errorf("lat=%v lon=%v: sun azimuth %v out of [-360, 360]", lat, lon, sp.Azimuth)
				}
				if sp.Altitude < -90 || sp.Altitude > 90 {
					t.Errorf("lat=%v lon=%v: sun altitude %v out of [-90, 90]", lat, lon, sp.Altitude)
				}

				mp := luminary.MoonPositionAt(at, c)
				if mp.Azimuth < -360 || mp.Azimuth > 360 {
					t.Errorf("lat=%v lon=%v: moon azimuth %v out of [-360, 360]", lat, lon, mp.Azimuth)
				}
				if mp.Altitude < -90 || mp.Altitude > 90 {
					t.Errorf("lat=%v lon=%v: moon altitude %v out of [-90, 90]", lat, lon, mp.Altitude)
				}
				if mp.Distance < 356000 || mp.Distance > 407000 {
					t.Errorf("lat=%v lon=%v: moon distance %v km implausible", lat, lon, mp.Distance)
				}
			}
		}
	}
}

func TestNewCoordinates_Validation(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		wantErr  error
	}{
		{"valid", 51.9, 10.43, nil},
		{"valid poles", 90, -180, nil},
		{"latitude too high", 90.01, 0, luminary.ErrLatitudeRange},
		{"latitude too low", -91, 0, luminary.ErrLatitudeRange},
		{"longitude too high", 0, 180.5, luminary.ErrLongitudeRange},
		{"longitude too low", 0, -181, luminary.ErrLongitudeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := luminary.NewCoordinates(tt.lat, tt.lon)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("NewCoordinates(%v, %v) = %v, want nil", tt.lat, tt.lon, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewCoordinates(%v, %v) = %v, want %v", tt.lat, tt.lon, err, tt.wantErr)
			}
		})
	}
}
