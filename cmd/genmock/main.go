// Command genmock writes a synthetic earthquake location file with a
// fixed hypocenter and randomized uncertainty records. It goes through
// the actual locfile writer, so fixtures stay byte-compatible with the
// parser.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/loc_mock.txt -records 12
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/seismo/quakeviz/internal/locfile"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated location file")
	records := flag.Int("records", 12, "number of uncertainty records")
	lat := flag.Float64("lat", 36.1135, "hypocenter latitude, degrees")
	lon := flag.Float64("lon", -117.6541, "hypocenter longitude, degrees")
	depth := flag.Float64("depth", 8.2, "hypocenter depth, km")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *records < 1 {
		return fmt.Errorf("-records must be at least 1, got %d", *records)
	}

	// Fixed clock and seed keep fixtures reproducible.
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.February, 12, 4, 30, 0, 0, time.UTC))
	rng := rand.New(rand.NewSource(*seed))

	f := &locfile.File{
		Hypocenter: locfile.Hypocenter{LatDeg: *lat, LonDeg: *lon, DepthKm: *depth},
	}

	for i := 0; i < *records; i++ {
		ts := clock.Now().UTC()
		rec := locfile.Record{
			Year:      ts.Year(),
			Month:     int(ts.Month()),
			Day:       ts.Day(),
			Hour:      ts.Hour(),
			Minute:    ts.Minute(),
			Magnitude: round2(2.0 + rng.Float64()*2.5),
			NorthKm:   round2(rng.NormFloat64() * 1.5),
			EastKm:    round2(rng.NormFloat64() * 1.5),
			DepthKm:   round2(rng.NormFloat64() * 2.0),
		}

		// Semi-axes in descending order, the usual shape of a
		// confidence ellipsoid.
		a := 1.5 + rng.Float64()*2.5
		b := a * (0.4 + 0.5*rng.Float64())
		c := b * (0.4 + 0.5*rng.Float64())
		rec.SemiAxesKm = [3]float64{a, b, c}

		rec.Orientation = rotationMatrix(
			rng.Float64()*2*math.Pi,
			rng.Float64()*math.Pi-math.Pi/2,
			rng.Float64()*2*math.Pi,
		)

		f.Records = append(f.Records, rec)
		clock.Advance(90 * time.Second)
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := locfile.WriteFile(*out, f); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}

	log.Printf("wrote %d records to %s", len(f.Records), *out)
	log.Printf("hypocenter: lat=%.4f lon=%.4f depth=%.1fkm", *lat, *lon, *depth)
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rotationMatrix composes rotations about the three local axes (ZYX
// order) into one orthonormal orientation matrix.
func rotationMatrix(aRad, bRad, cRad float64) [3][3]float64 {
	sa, ca := math.Sincos(aRad)
	sb, cb := math.Sincos(bRad)
	sc, cc := math.Sincos(cRad)

	return [3][3]float64{
		{ca * cb, ca*sb*sc - sa*cc, ca*sb*cc + sa*sc},
		{sa * cb, sa*sb*sc + ca*cc, sa*sb*cc - ca*sc},
		{-sb, cb * sc, cb * cc},
	}
}
