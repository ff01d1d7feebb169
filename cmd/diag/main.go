package main

import (
	"fmt"
	"os"

	"github.com/seismo/quakeviz/internal/colormap"
	"github.com/seismo/quakeviz/internal/locfile"
	"github.com/seismo/quakeviz/internal/mesh"
	"github.com/seismo/quakeviz/internal/transform"
)

// diag parses one location file and prints what the pipeline would do
// with it, record by record, without drawing anything.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: diag <location-file>")
		os.Exit(1)
	}

	f, err := locfile.ParseFile(os.Args[1])
	if err != nil {
		fmt.Println("ERROR parsing location file:", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %s: %d records\n", f.Path, len(f.Records))
	fmt.Printf("Hypocenter: lat=%.4f lon=%.4f depth=%.1fkm\n",
		f.Hypocenter.LatDeg, f.Hypocenter.LonDeg, f.Hypocenter.DepthKm)

	colors, err := colormap.New(64, 100)
	if err != nil {
		fmt.Println("ERROR building colormap:", err)
		os.Exit(1)
	}

	const resolution = 6

	var depths colormap.Range
	for i, rec := range f.Records {
		fmt.Printf("\nrecord %d: %04d-%02d-%02d %02d:%02d M%.2f\n",
			i+1, rec.Year, rec.Month, rec.Day, rec.Hour, rec.Minute, rec.Magnitude)
		fmt.Printf("  offsets: north=%.2fkm east=%.2fkm depth=%.2fkm\n",
			rec.NorthKm, rec.EastKm, rec.DepthKm)
		fmt.Printf("  semi-axes: %.3f %.3f %.3f km\n",
			rec.SemiAxesKm[0], rec.SemiAxesKm[1], rec.SemiAxesKm[2])

		m, err := mesh.Build(rec, resolution)
		if err != nil {
			fmt.Printf("  ERROR building mesh: %v\n", err)
			continue
		}

		pts := transform.ProjectMesh(f.Hypocenter, m)
		var rng colormap.Range
		for _, p := range pts {
			rng.Observe(p.DepthKm)
		}
		depths.Merge(rng)

		center := transform.Project(f.Hypocenter, rec.NorthKm, rec.EastKm, rec.DepthKm)
		fmt.Printf("  center: lat=%.5f lon=%.5f depth=%.2fkm color=%d\n",
			center.LatDeg, center.LonDeg, center.DepthKm, colors.Index(center.DepthKm))
		minKm, maxKm, _ := rng.Bounds()
		fmt.Printf("  %d points, depth %.2f..%.2f km\n", len(pts), minKm, maxKm)
	}

	if minKm, maxKm, ok := depths.Bounds(); ok {
		fmt.Printf("\nOverall depth range: %.2f..%.2f km\n", minKm, maxKm)
	}
}
