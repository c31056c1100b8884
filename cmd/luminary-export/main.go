// Command luminary-export computes a daily sun/moon almanac for a location
// over a date range and upserts it into a Postgres table.
//
// The connection string comes from -dsn or the DATABASE_URL environment
// variable (a .env file is honored).
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/thurmanmarka/luminary"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS almanac (
	day                date             NOT NULL,
	latitude           double precision NOT NULL,
	longitude          double precision NOT NULL,
	sunrise            timestamptz,
	sunset             timestamptz,
	solar_noon         timestamptz,
	civil_dawn         timestamptz,
	civil_dusk         timestamptz,
	nautical_dawn      timestamptz,
	nautical_dusk      timestamptz,
	astronomical_dawn  timestamptz,
	astronomical_dusk  timestamptz,
	daylight_seconds   integer,
	moonrise           timestamptz,
	moonset            timestamptz,
	moon_always_up     boolean          NOT NULL,
	moon_always_down   boolean          NOT NULL,
	moon_fraction      double precision NOT NULL,
	moon_phase         double precision NOT NULL,
	moon_phase_name    text             NOT NULL,
	PRIMARY KEY (day, latitude, longitude)
)`

const upsertSQL = `
INSERT INTO almanac (
	day,
	latitude,
	longitude,
	sunrise,
	sunset,
	solar_noon,
	civil_dawn,
	civil_dusk,
	nautical_dawn,
	nautical_dusk,
	astronomical_dawn,
	astronomical_dusk,
	daylight_seconds,
	moonrise,
	moonset,
	moon_always_up,
	moon_always_down,
	moon_fraction,
	moon_phase,
	moon_phase_name
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
ON CONFLICT (day, latitude, longitude) DO UPDATE SET
	sunrise = EXCLUDED.sunrise,
	sunset = EXCLUDED.sunset,
	solar_noon = EXCLUDED.solar_noon,
	civil_dawn = EXCLUDED.civil_dawn,
	civil_dusk = EXCLUDED.civil_dusk,
	nautical_dawn = EXCLUDED.nautical_dawn,
	nautical_dusk = EXCLUDED.nautical_dusk,
	astronomical_dawn = EXCLUDED.astronomical_dawn,
	astronomical_dusk = EXCLUDED.astronomical_dusk,
	daylight_seconds = EXCLUDED.daylight_seconds,
	moonrise = EXCLUDED.moonrise,
	moonset = EXCLUDED.moonset,
	moon_always_up = EXCLUDED.moon_always_up,
	moon_always_down = EXCLUDED.moon_always_down,
	moon_fraction = EXCLUDED.moon_fraction,
	moon_phase = EXCLUDED.moon_phase,
	moon_phase_name = EXCLUDED.moon_phase_name`

func main() {
	log.SetFlags(0)

	// No .env file is fine; plain environment variables still apply.
	_ = godotenv.Load()

	var (
		lat    = flag.Float64("lat", envFloat("LUMINARY_LAT", 0), "latitude in degrees (north positive)")
		lon    = flag.Float64("lon", envFloat("LUMINARY_LON", 0), "longitude in degrees (east positive, west negative)")
		tzName = flag.String("tz", envString("LUMINARY_TZ", "UTC"), "IANA time zone name (e.g. America/Phoenix)")
		fromS  = flag.String("from", "", "first date of the range, YYYY-MM-DD (required)")
		toS    = flag.String("to", "", "last date of the range, YYYY-MM-DD (defaults to -from)")
		dsn    = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (default $DATABASE_URL)")
		dryRun = flag.Bool("dry-run", false, "compute and print rows without touching the database")
	)
	flag.Parse()

	if *fromS == "" {
		log.Fatalf("missing -from (first date of the range)")
	}
	if *toS == "" {
		*toS = *fromS
	}

	coords, err := luminary.NewCoordinates(*lat, *lon)
	if err != nil {
		log.Fatalf("invalid location: %v", err)
	}
	if *lat == 0 && *lon == 0 {
		log.Println("warning: lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
	}

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		log.Fatalf("invalid time zone %q: %v", *tzName, err)
	}

	from, err := time.ParseInLocation("2006-01-02", *fromS, loc)
	if err != nil {
		log.Fatalf("invalid -from %q: %v", *fromS, err)
	}
	to, err := time.ParseInLocation("2006-01-02", *toS, loc)
	if err != nil {
		log.Fatalf("invalid -to %q: %v", *toS, err)
	}
	if to.Before(from) {
		log.Fatalf("-to %s is before -from %s", *toS, *fromS)
	}

	rows := buildRows(coords, from, to, loc)

	if *dryRun {
		for _, row := range rows {
			fmt.Printf("%s sunrise=%v sunset=%v moonrise=%v moonset=%v phase=%s\n",
				row.day.Format("2006-01-02"),
				nullTimeString(row.sunrise), nullTimeString(row.sunset),
				nullTimeString(row.moonrise), nullTimeString(row.moonset),
				row.phaseName)
		}
		log.Printf("dry run: %d rows, database untouched", len(rows))
		return
	}

	if *dsn == "" {
		log.Fatalf("missing -dsn (or DATABASE_URL) for Postgres connection")
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		log.Fatalf("failed to ensure almanac table: %v", err)
	}

	if err := saveRows(ctx, db, rows); err != nil {
		log.Fatalf("export failed: %v", err)
	}
	log.Printf("exported %d days (%s .. %s) for lat=%.4f lon=%.4f",
		len(rows), *fromS, *toS, coords.Lat, coords.Lon)
}

// almanacRow is one day of the export, with absent events as NULLs.
type almanacRow struct {
	day              time.Time
	lat, lon         float64
	sunrise          sql.NullTime
	sunset           sql.NullTime
	solarNoon        sql.NullTime
	civilDawn        sql.NullTime
	civilDusk        sql.NullTime
	nauticalDawn     sql.NullTime
	nauticalDusk     sql.NullTime
	astronomicalDawn sql.NullTime
	astronomicalDusk sql.NullTime
	daylightSeconds  sql.NullInt64
	moonrise         sql.NullTime
	moonset          sql.NullTime
	alwaysUp         bool
	alwaysDown       bool
	fraction         float64
	phase            float64
	phaseName        string
}

func buildRows(coords luminary.Coordinates, from, to time.Time, loc *time.Location) []almanacRow {
	offset := luminary.LocationOffset(loc)

	var rows []almanacRow
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		st := luminary.SunTimesFor(day, coords, offset)
		mt := luminary.MoonTimesFor(day, coords, offset)
		mi := luminary.MoonIlluminationAt(
			time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, loc))

		row := almanacRow{
			day:              day,
			lat:              coords.Lat,
			lon:              coords.Lon,
			sunrise:          nullTime(st.Sunrise),
			sunset:           nullTime(st.Sunset),
			solarNoon:        nullTime(st.SolarNoon),
			civilDawn:        nullTime(st.CivilDawn),
			civilDusk:        nullTime(st.CivilDusk),
			nauticalDawn:     nullTime(st.NauticalDawn),
			nauticalDusk:     nullTime(st.NauticalDusk),
			astronomicalDawn: nullTime(st.AstronomicalDawn),
			astronomicalDusk: nullTime(st.AstronomicalDusk),
			moonrise:         nullTime(mt.Rise),
			moonset:          nullTime(mt.Set),
			alwaysUp:         mt.AlwaysUp,
			alwaysDown:       mt.AlwaysDown,
			fraction:         mi.Fraction,
			phase:            mi.Phase,
			phaseName:        mi.PhaseName(),
		}
		if dl, ok := st.Daylight(); ok {
			row.daylightSeconds = sql.NullInt64{Int64: int64(dl / time.Second), Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

// saveRows upserts all rows in one transaction so a partial export never
// leaves a half-written range behind.
func saveRows(ctx context.Context, db *sql.DB, rows []almanacRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.day,
			row.lat,
			row.lon,
			row.sunrise,
			row.sunset,
			row.solarNoon,
			row.civilDawn,
			row.civilDusk,
			row.nauticalDawn,
			row.nauticalDusk,
			row.astronomicalDawn,
			row.astronomicalDusk,
			row.daylightSeconds,
			row.moonrise,
			row.moonset,
			row.alwaysUp,
			row.alwaysDown,
			row.fraction,
			row.phase,
			row.phaseName,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert row for %s: %w", row.day.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nullTime(ev luminary.Event) sql.NullTime {
	if !ev.OK {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: ev.Time, Valid: true}
}

func nullTimeString(nt sql.NullTime) string {
	if !nt.Valid {
		return "--"
	}
	return nt.Time.Format("15:04:05")
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
