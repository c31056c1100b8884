// Command luminary prints sun and moon positions, event times, and moon
// illumination for a location and date.
//
// Locations come from flags, from a TOML site catalog (-sites/-site), or
// from LUMINARY_LAT / LUMINARY_LON / LUMINARY_TZ environment variables
// (a .env file is honored).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/naoina/toml"
	"github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/luminary"
)

func main() {
	log.SetFlags(0)

	// No .env file is fine; plain environment variables still apply.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sun":
		runSun(os.Args[2:])
	case "moon":
		runMoon(os.Args[2:])
	case "phase":
		runPhase(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `luminary - sun/moon positions and event times

Usage:
  luminary sun [flags]       # sun position + the day's sun events
  luminary moon [flags]      # moon position + rise/set
  luminary phase [flags]     # moon illumination / phase

Common flags:
  -lat float
        latitude in degrees (north positive)
  -lon float
        longitude in degrees (east positive, west negative)
  -date string
        date in YYYY-MM-DD (optional, defaults to today)
  -tz string
        IANA time zone for presentation (default "UTC")
  -sites string
        path to a TOML site catalog
  -site string
        site name from the catalog (replaces -lat/-lon/-tz)
  -json
        output result as JSON
`)
}

// locationFlags holds the flags shared by every subcommand.
type locationFlags struct {
	lat, lon *float64
	dateS    *string
	tzName   *string
	sites    *string
	site     *string
	jsonOut  *bool
}

func addLocationFlags(fs *flag.FlagSet) *locationFlags {
	return &locationFlags{
		lat:     fs.Float64("lat", envFloat("LUMINARY_LAT", 0), "latitude in degrees (north positive)"),
		lon:     fs.Float64("lon", envFloat("LUMINARY_LON", 0), "longitude in degrees (east positive, west negative)"),
		dateS:   fs.String("date", "", "date in YYYY-MM-DD (optional, defaults to today)"),
		tzName:  fs.String("tz", envString("LUMINARY_TZ", "UTC"), "IANA time zone name (e.g. America/Phoenix)"),
		sites:   fs.String("sites", "", "path to a TOML site catalog"),
		site:    fs.String("site", "", "site name from the catalog"),
		jsonOut: fs.Bool("json", false, "output result as JSON"),
	}
}

// site catalogs are small TOML files of named observer locations:
//
//	[sites.goslar]
//	lat = 51.9
//	lon = 10.43
//	tz = "Europe/Berlin"
type siteCatalog struct {
	Sites map[string]catalogSite `toml:"sites"`
}

type catalogSite struct {
	Lat float64 `toml:"lat"`
	Lon float64 `toml:"lon"`
	TZ  string  `toml:"tz"`
}

// resolve turns the parsed flags into coordinates, a presentation zone and
// the requested local date.
func (lf *locationFlags) resolve() (luminary.Coordinates, *time.Location, time.Time) {
	lat, lon, tzName := *lf.lat, *lf.lon, *lf.tzName

	if *lf.site != "" {
		if *lf.sites == "" {
			log.Fatalf("-site %q given without -sites catalog", *lf.site)
		}
		data, err := os.ReadFile(*lf.sites)
		if err != nil {
			log.Fatalf("failed to read site catalog %q: %v", *lf.sites, err)
		}
		var cat siteCatalog
		if err := toml.Unmarshal(data, &cat); err != nil {
			log.Fatalf("failed to parse site catalog %q: %v", *lf.sites, err)
		}
		s, ok := cat.Sites[*lf.site]
		if !ok {
			log.Fatalf("site %q not found in %q", *lf.site, *lf.sites)
		}
		lat, lon = s.Lat, s.Lon
		if s.TZ != "" {
			tzName = s.TZ
		}
	}

	coords, err := luminary.NewCoordinates(lat, lon)
	if err != nil {
		log.Fatalf("invalid location: %v", err)
	}
	if lat == 0 && lon == 0 {
		log.Println("warning: lat=0 lon=0 (Gulf of Guinea). Use -lat and -lon to set a real location.")
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatalf("invalid time zone %q: %v", tzName, err)
	}

	var date time.Time
	if *lf.dateS == "" {
		now := time.Now().In(loc)
		date = time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, loc)
	} else {
		date, err = time.ParseInLocation("2006-01-02", *lf.dateS, loc)
		if err != nil {
			log.Fatalf("invalid -date %q: %v", *lf.dateS, err)
		}
	}

	return coords, loc, date
}

// ---------------------
// sun subcommand
// ---------------------

type sunOutput struct {
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Date      string               `json:"date"`
	Timezone  string               `json:"timezone"`
	Position  luminary.SunPosition `json:"position"`
	Times     luminary.SunTimes    `json:"times"`
}

func runSun(args []string) {
	fs := flag.NewFlagSet("sun", flag.ExitOnError)
	lf := addLocationFlags(fs)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	coords, loc, date := lf.resolve()
	offset := luminary.LocationOffset(loc)

	pos := luminary.SunPositionAt(date, coords)
	st := luminary.SunTimesFor(date, coords, offset)

	if *lf.jsonOut {
		printJSON(sunOutput{
			Latitude:  coords.Lat,
			Longitude: coords.Lon,
			Date:      date.Format("2006-01-02"),
			Timezone:  loc.String(),
			Position:  pos,
			Times:     st,
		})
		return
	}

	fmt.Printf("Sun for lat=%.4f lon=%.4f on %s (%s)\n\n",
		coords.Lat, coords.Lon, date.Format("2006-01-02"), loc)
	fmt.Printf("Position at %s:\n", date.Format("15:04"))
	fmt.Printf("  Azimuth : %v\n", sexa.FmtAngle(unit.AngleFromDeg(pos.Azimuth)))
	fmt.Printf("  Altitude: %v\n", sexa.FmtAngle(unit.AngleFromDeg(pos.Altitude)))
	fmt.Println()

	printEvent("Astronomical dawn", st.AstronomicalDawn)
	printEvent("Nautical dawn", st.NauticalDawn)
	printEvent("Civil dawn", st.CivilDawn)
	printEvent("Blue hour end", st.BlueHourEnd)
	printEvent("Sunrise", st.Sunrise)
	printEvent("Sunrise end", st.SunriseEnd)
	printEvent("Golden hour end", st.GoldenHourEnd)
	printEvent("Solar noon", st.SolarNoon)
	printEvent("Golden hour", st.GoldenHour)
	printEvent("Sunset start", st.SunsetStart)
	printEvent("Sunset", st.Sunset)
	printEvent("Blue hour", st.BlueHour)
	printEvent("Civil dusk", st.CivilDusk)
	printEvent("Nautical dusk", st.NauticalDusk)
	printEvent("Astronomical dusk", st.AstronomicalDusk)
	printEvent("Nadir", st.Nadir)

	if dl, ok := st.Daylight(); ok {
		fmt.Printf("\nDaylight: %v\n", dl.Round(time.Second))
	}
}

// ---------------------
// moon subcommand
// ---------------------

type moonOutput struct {
	Latitude  float64               `json:"latitude"`
	Longitude float64               `json:"longitude"`
	Date      string                `json:"date"`
	Timezone  string                `json:"timezone"`
	Position  luminary.MoonPosition `json:"position"`
	Times     luminary.MoonTimes    `json:"times"`
}

func runMoon(args []string) {
	fs := flag.NewFlagSet("moon", flag.ExitOnError)
	lf := addLocationFlags(fs)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	coords, loc, date := lf.resolve()
	offset := luminary.LocationOffset(loc)

	pos := luminary.MoonPositionAt(date, coords)
	mt := luminary.MoonTimesFor(date, coords, offset)

	if *lf.jsonOut {
		printJSON(moonOutput{
			Latitude:  coords.Lat,
			Longitude: coords.Lon,
			Date:      date.Format("2006-01-02"),
			Timezone:  loc.String(),
			Position:  pos,
			Times:     mt,
		})
		return
	}

	fmt.Printf("Moon for lat=%.4f lon=%.4f on %s (%s)\n\n",
		coords.Lat, coords.Lon, date.Format("2006-01-02"), loc)
	fmt.Printf("Position at %s:\n", date.Format("15:04"))
	fmt.Printf("  Azimuth : %v\n", sexa.FmtAngle(unit.AngleFromDeg(pos.Azimuth)))
	fmt.Printf("  Altitude: %v\n", sexa.FmtAngle(unit.AngleFromDeg(pos.Altitude)))
	fmt.Printf("  Distance: %d km\n", pos.Distance)
	fmt.Println()

	printEvent("Moonrise", mt.Rise)
	printEvent("Moonset", mt.Set)
	if mt.AlwaysUp {
		fmt.Println("Moon is above the horizon all day")
	}
	if mt.AlwaysDown {
		fmt.Println("Moon stays below the horizon all day")
	}
}

// ---------------------
// phase subcommand
// ---------------------

func runPhase(args []string) {
	fs := flag.NewFlagSet("phase", flag.ExitOnError)

	tzName := fs.String("tz", envString("LUMINARY_TZ", "UTC"), "IANA time zone name (e.g. America/Phoenix)")
	timeStr := fs.String("time", "", "time in RFC3339 or 'YYYY-MM-DDTHH:MM' (optional, defaults to now)")
	jsonOut := fs.Bool("json", false, "output result as JSON")

	if err := fs.Parse(args); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		log.Fatalf("invalid time zone %q: %v", *tzName, err)
	}

	var tLocal time.Time
	if *timeStr == "" {
		tLocal = time.Now().In(loc)
	} else {
		layouts := []string{
			time.RFC3339,
			"2006-01-02T15:04",
			"2006-01-02 15:04",
			"2006-01-02",
		}
		var parseErr error
		for _, layout := range layouts {
			tLocal, parseErr = time.ParseInLocation(layout, *timeStr, loc)
			if parseErr == nil {
				break
			}
		}
		if parseErr != nil {
			log.Fatalf("could not parse -time %q: %v", *timeStr, parseErr)
		}
	}

	mi := luminary.MoonIlluminationAt(tLocal)

	if *jsonOut {
		printJSON(struct {
			Time string `json:"time"`
			Name string `json:"name"`
			luminary.MoonIllumination
		}{tLocal.Format(time.RFC3339), mi.PhaseName(), mi})
		return
	}

	fmt.Printf("Moon phase at %s (%s)\n", tLocal.Format(time.RFC3339), loc)
	fmt.Printf("  Name     : %s\n", mi.PhaseName())
	fmt.Printf("  Fraction : %.3f (%.1f%% illuminated)\n", mi.Fraction, mi.Fraction*100)
	fmt.Printf("  Phase    : %.3f\n", mi.Phase)
	if mi.Waxing() {
		fmt.Printf("  Trend    : Waxing (illumination increasing)\n")
	} else {
		fmt.Printf("  Trend    : Waning (illumination decreasing)\n")
	}
}

// ---------------------
// shared helpers
// ---------------------

func printEvent(name string, ev luminary.Event) {
	if !ev.OK {
		fmt.Printf("%-18s: --\n", name)
		return
	}
	fmt.Printf("%-18s: %s\n", name, ev.Time.Format("15:04:05 MST"))
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("failed to encode JSON: %v", err)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("invalid %s=%q: %v", key, v, err)
	}
	return f
}
