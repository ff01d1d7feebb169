package mesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/seismo/quakeviz/internal/locfile"
)

// Linear algebra choice: gonum.org/v1/gonum/mat.
//
// De-rotation is a matrix right-division (X·V = P, so X = P·V⁻¹).
// Re-implementing it as an elementwise or left multiplication silently
// changes the geometry, so it is expressed as a dense solve of the
// transposed system Vᵀ·Xᵀ = Pᵀ. gonum's LU-backed Solve reports singular
// and ill-conditioned systems instead of producing garbage points.

var (
	// ErrSingularOrientation marks an orientation matrix that cannot be
	// inverted; the record's ellipsoid has no defined native orientation.
	ErrSingularOrientation = errors.New("orientation matrix is singular")

	// ErrInvalidParameter marks a caller value outside its domain: a
	// negative semi-axis, a resolution below 1, or non-finite geometry.
	ErrInvalidParameter = errors.New("invalid mesh parameter")
)

// Point is a position in the hypocenter-local frame, km.
type Point struct {
	North float64
	East  float64
	Depth float64
}

// Mesh is a parametric ellipsoid surface: a Rows×Cols grid of local-frame
// points stored row-major, one row per co-latitude sample. Built per
// record, never mutated afterwards.
type Mesh struct {
	Rows   int
	Cols   int
	Points []Point
}

// At returns the grid point at co-latitude row i, azimuth column j.
func (m *Mesh) At(i, j int) Point {
	return m.Points[i*m.Cols+j]
}

// Build converts one ellipsoid record into surface points in the
// hypocenter-local (north, east, depth) frame. npts is the grid
// resolution: npts+1 co-latitude samples over [0, π] (both poles
// included, degenerate) by npts+1 azimuth samples over [0, 2π] (seam
// duplicated).
//
// The unit sphere is scaled by the record's semi-axes, de-rotated by
// solving X·Orientation = P, and translated by the record's center
// offset. Geographic conversion is a separate stage.
func Build(rec locfile.Record, npts int) (*Mesh, error) {
	if npts < 1 {
		return nil, fmt.Errorf("%w: resolution %d, need at least 1", ErrInvalidParameter, npts)
	}
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	v := mat.NewDense(3, 3, []float64{
		rec.Orientation[0][0], rec.Orientation[0][1], rec.Orientation[0][2],
		rec.Orientation[1][0], rec.Orientation[1][1], rec.Orientation[1][2],
		rec.Orientation[2][0], rec.Orientation[2][1], rec.Orientation[2][2],
	})

	// A zero or repeated principal-axis row factors to a zero determinant;
	// catch it before the solve for a precise error.
	if det := mat.Det(v); math.Abs(det) < 1e-12 {
		return nil, fmt.Errorf("%w: determinant %g", ErrSingularOrientation, det)
	}

	n := npts + 1
	a, b, c := rec.SemiAxesKm[0], rec.SemiAxesKm[1], rec.SemiAxesKm[2]

	// Axis-aligned ellipsoid points as the columns of a 3×n² matrix (the
	// transposed point rows), ready for the transposed solve.
	pt := mat.NewDense(3, n*n, nil)
	for i := 0; i < n; i++ {
		sinC, cosC := math.Sincos(math.Pi * float64(i) / float64(npts))
		for j := 0; j < n; j++ {
			sinA, cosA := math.Sincos(2 * math.Pi * float64(j) / float64(npts))
			col := i*n + j
			pt.Set(0, col, a*sinC*cosA)
			pt.Set(1, col, b*sinC*sinA)
			pt.Set(2, col, c*cosC)
		}
	}

	// Solve Vᵀ·Xᵀ = Pᵀ, the transpose of X·V = P: X right-multiplies the
	// inverse orientation, undoing the principal-axis decomposition.
	var xt mat.Dense
	if err := xt.Solve(v.T(), pt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularOrientation, err)
	}

	m := &Mesh{Rows: n, Cols: n, Points: make([]Point, n*n)}
	for k := range m.Points {
		p := Point{
			North: xt.At(0, k) + rec.NorthKm,
			East:  xt.At(1, k) + rec.EastKm,
			Depth: xt.At(2, k) + rec.DepthKm,
		}
		if !finite(p.North) || !finite(p.East) || !finite(p.Depth) {
			return nil, fmt.Errorf("%w: non-finite point at grid index %d", ErrSingularOrientation, k)
		}
		m.Points[k] = p
	}
	return m, nil
}

func validateRecord(rec locfile.Record) error {
	for i, ax := range rec.SemiAxesKm {
		if ax < 0 || !finite(ax) {
			return fmt.Errorf("%w: semi-axis %d is %g", ErrInvalidParameter, i+1, ax)
		}
	}
	for i := range rec.Orientation {
		for j, e := range rec.Orientation[i] {
			if !finite(e) {
				return fmt.Errorf("%w: orientation[%d][%d] is %g", ErrInvalidParameter, i+1, j+1, e)
			}
		}
	}
	if !finite(rec.NorthKm) || !finite(rec.EastKm) || !finite(rec.DepthKm) {
		return fmt.Errorf("%w: non-finite center offset", ErrInvalidParameter)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
