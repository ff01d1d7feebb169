package locfile

// Hypocenter is the reference geographic location for every ellipsoid
// record in one file. It is read once from the file header and never
// changes afterwards.
type Hypocenter struct {
	LatDeg  float64
	LonDeg  float64
	DepthKm float64
}

// Record is one confidence ellipsoid belonging to a hypocenter.
//
// Orientation rows are the principal-axis direction vectors the location
// program used to decompose the ellipsoid; the matrix must be nonsingular.
// Semi-axis lengths are km along the local frame before rotation.
type Record struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int

	// Magnitude occupies the seconds slot of the timestamp field in this
	// format. It is descriptive only and plays no part in the geometry.
	Magnitude float64

	// Center offset from the hypocenter in the local tangent-plane frame, km.
	NorthKm float64
	EastKm  float64
	DepthKm float64

	Orientation [3][3]float64
	SemiAxesKm  [3]float64
}

// File is one parsed location file: a hypocenter and its ordered records.
type File struct {
	Path       string
	Hypocenter Hypocenter
	Records    []Record
}
