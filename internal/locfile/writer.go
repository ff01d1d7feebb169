package locfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Write emits f in the exact column widths of the location-program output
// format, so that written files parse back to identical values. Values
// must fit their columns: hypocenter fields and orientation/semi-axis
// fields format to at most 10 characters, deviations to at most 8, or the
// written file will not conform.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "earthquake location confidence ellipsoids, %d records\n", len(f.Records))
	fmt.Fprintf(bw, "%10.4f%10.4f%10.4f\n", f.Hypocenter.LatDeg, f.Hypocenter.LonDeg, f.Hypocenter.DepthKm)
	fmt.Fprintln(bw, "reference frame: local tangent plane (north, east, depth)")
	fmt.Fprintln(bw, "units: km")
	fmt.Fprintln(bw, "orientation: principal-axis direction rows")
	fmt.Fprintln(bw, "semi-axes: km along principal directions")
	fmt.Fprintln(bw, "")

	for i := range f.Records {
		r := &f.Records[i]
		fmt.Fprintf(bw, "%04d-%02d-%02d-%02d:%02d-%05.2f\n",
			r.Year, r.Month, r.Day, r.Hour, r.Minute, r.Magnitude)
		fmt.Fprintf(bw, "%8.2f%8.2f%8.2f\n", r.NorthKm, r.EastKm, r.DepthKm)
		for row := 0; row < 3; row++ {
			fmt.Fprintf(bw, "%10.5f%10.5f%10.5f%10.5f\n",
				r.Orientation[row][0], r.Orientation[row][1], r.Orientation[row][2],
				r.SemiAxesKm[row])
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing location data: %w", err)
	}
	return nil
}

// WriteFile writes f to path in the location-program output format.
func WriteFile(path string, f *File) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating location file: %w", err)
	}
	if err := Write(out, f); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing location file: %w", err)
	}
	return nil
}
