package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/seismo/quakeviz/internal/locfile"
)

func baseRecord() locfile.Record {
	return locfile.Record{
		Orientation: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		SemiAxesKm:  [3]float64{3, 2, 1},
	}
}

// applyOrientation re-applies the orientation matrix to a point (row
// vector times matrix), the forward form of the decomposition that Build
// inverts.
func applyOrientation(p Point, v [3][3]float64) Point {
	in := [3]float64{p.North, p.East, p.Depth}
	var out [3]float64
	for k := 0; k < 3; k++ {
		out[k] = in[0]*v[0][k] + in[1]*v[1][k] + in[2]*v[2][k]
	}
	return Point{North: out[0], East: out[1], Depth: out[2]}
}

func TestBuildGridShape(t *testing.T) {
	m, err := Build(baseRecord(), 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Rows != 5 || m.Cols != 5 {
		t.Errorf("grid = %dx%d, want 5x5", m.Rows, m.Cols)
	}
	if len(m.Points) != 25 {
		t.Errorf("len(Points) = %d, want 25", len(m.Points))
	}
}

// With identity orientation and no offset, every point must satisfy the
// ellipsoid equation (x/a)² + (y/b)² + (z/c)² = 1.
func TestBuildIdentityOrientationOnSurface(t *testing.T) {
	m, err := Build(baseRecord(), 12)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for k, p := range m.Points {
		nx := p.North / 3
		ny := p.East / 2
		nz := p.Depth / 1
		got := nx*nx + ny*ny + nz*nz
		if math.Abs(got-1) > 1e-9 {
			t.Fatalf("point %d: ellipsoid equation = %.12f, want 1", k, got)
		}
	}
}

// The co-latitude endpoints are the poles: every azimuth sample there
// must coincide.
func TestBuildPolesDegenerate(t *testing.T) {
	m, err := Build(baseRecord(), 8)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, row := range []int{0, m.Rows - 1} {
		first := m.At(row, 0)
		for j := 1; j < m.Cols; j++ {
			p := m.At(row, j)
			if math.Abs(p.North-first.North) > 1e-12 ||
				math.Abs(p.East-first.East) > 1e-12 ||
				math.Abs(p.Depth-first.Depth) > 1e-12 {
				t.Fatalf("row %d col %d: pole point %+v != %+v", row, j, p, first)
			}
		}
	}

	if top := m.At(0, 0); math.Abs(top.Depth-1) > 1e-12 {
		t.Errorf("top pole depth = %g, want semi-axis c = 1", top.Depth)
	}
	if bottom := m.At(m.Rows-1, 0); math.Abs(bottom.Depth+1) > 1e-12 {
		t.Errorf("bottom pole depth = %g, want -1", bottom.Depth)
	}
}

// Building with orientation V and then re-applying V must recover the
// axis-aligned ellipsoid: the de-rotation is a right division, not a
// multiplication, and this round trip guards that semantics.
func TestBuildDerotationRoundTrip(t *testing.T) {
	sin, cos := math.Sincos(30 * math.Pi / 180)
	v := [3][3]float64{
		{cos, sin, 0},
		{-sin, cos, 0},
		{0, 0, 1},
	}

	rec := baseRecord()
	rec.Orientation = v
	rotated, err := Build(rec, 10)
	if err != nil {
		t.Fatalf("Build rotated: %v", err)
	}

	aligned, err := Build(baseRecord(), 10)
	if err != nil {
		t.Fatalf("Build aligned: %v", err)
	}

	for k := range rotated.Points {
		got := applyOrientation(rotated.Points[k], v)
		want := aligned.Points[k]
		if math.Abs(got.North-want.North) > 1e-9 ||
			math.Abs(got.East-want.East) > 1e-9 ||
			math.Abs(got.Depth-want.Depth) > 1e-9 {
			t.Fatalf("point %d: got %+v, want %+v", k, got, want)
		}
	}
}

func TestBuildTranslation(t *testing.T) {
	rec := baseRecord()
	rec.NorthKm, rec.EastKm, rec.DepthKm = 10, -5, 2.5

	m, err := Build(rec, 8)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// The surface is symmetric about its center, so the midrange of each
	// coordinate recovers the offset.
	mid := func(get func(Point) float64) float64 {
		lo, hi := get(m.Points[0]), get(m.Points[0])
		for _, p := range m.Points[1:] {
			lo = math.Min(lo, get(p))
			hi = math.Max(hi, get(p))
		}
		return (lo + hi) / 2
	}

	if got := mid(func(p Point) float64 { return p.North }); math.Abs(got-10) > 1e-9 {
		t.Errorf("north midrange = %g, want 10", got)
	}
	if got := mid(func(p Point) float64 { return p.East }); math.Abs(got+5) > 1e-9 {
		t.Errorf("east midrange = %g, want -5", got)
	}
	if got := mid(func(p Point) float64 { return p.Depth }); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("depth midrange = %g, want 2.5", got)
	}
}

func TestBuildSingularOrientation(t *testing.T) {
	tests := []struct {
		name   string
		orient [3][3]float64
	}{
		{"zero row", [3][3]float64{{1, 0, 0}, {0, 0, 0}, {0, 0, 1}}},
		{"duplicate rows", [3][3]float64{{1, 0, 0}, {1, 0, 0}, {0, 0, 1}}},
		{"linearly dependent rows", [3][3]float64{{1, 2, 0}, {2, 4, 0}, {0, 0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			rec.Orientation = tt.orient
			_, err := Build(rec, 4)
			if !errors.Is(err, ErrSingularOrientation) {
				t.Fatalf("Build error = %v, want ErrSingularOrientation", err)
			}
		})
	}
}

func TestBuildInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		npts   int
		mutate func(*locfile.Record)
	}{
		{"zero resolution", 0, func(r *locfile.Record) {}},
		{"negative resolution", -3, func(r *locfile.Record) {}},
		{"negative semi-axis", 4, func(r *locfile.Record) { r.SemiAxesKm[1] = -2 }},
		{"NaN semi-axis", 4, func(r *locfile.Record) { r.SemiAxesKm[0] = math.NaN() }},
		{"NaN orientation entry", 4, func(r *locfile.Record) { r.Orientation[0][0] = math.NaN() }},
		{"infinite offset", 4, func(r *locfile.Record) { r.EastKm = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			tt.mutate(&rec)
			_, err := Build(rec, tt.npts)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("Build error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

// Zero-length semi-axes are legal degenerate ellipsoids: every point
// collapses onto the center.
func TestBuildZeroSemiAxes(t *testing.T) {
	rec := baseRecord()
	rec.SemiAxesKm = [3]float64{0, 0, 0}
	rec.NorthKm, rec.EastKm, rec.DepthKm = 1, 2, 3

	m, err := Build(rec, 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for k, p := range m.Points {
		if p.North != 1 || p.East != 2 || p.Depth != 3 {
			t.Fatalf("point %d = %+v, want the bare center offset", k, p)
		}
	}
}
