// Package transform maps local tangent-plane offsets around a
// hypocenter onto geodetic coordinates on the WGS-84 ellipsoid.
package transform

import (
	"math"

	"github.com/seismo/quakeviz/internal/locfile"
	"github.com/seismo/quakeviz/internal/mesh"
)

// WGS-84 ellipsoid constants.
const (
	wgs84A = 6378137.0           // semi-major axis, meters
	wgs84F = 1.0 / 298.257223563 // flattening
	wgs84B = wgs84A * (1.0 - wgs84F)
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// Vincenty's series converges within a handful of rounds for the direct
// problem; the cap only guards against pathological inputs.
const (
	vincentyTolerance = 1e-12
	vincentyMaxIter   = 100
)

// GeographicPoint is a projected mesh vertex: geodetic latitude and
// longitude in degrees, depth in kilometers below the reference surface.
type GeographicPoint struct {
	LatDeg  float64
	LonDeg  float64
	DepthKm float64
}

// Bearing converts a local (north, east) offset into an initial bearing
// in degrees clockwise from true north, normalized to [0, 360).
func Bearing(northKm, eastKm float64) float64 {
	deg := math.Atan2(eastKm, northKm) * rad2deg
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Destination solves the direct geodetic problem on the WGS-84
// ellipsoid with Vincenty's formula (T. Vincenty, Survey Review XXIII
// No. 176, 1975): given a start point, an initial bearing in degrees
// clockwise from north, and a distance in kilometers, it returns the
// end point latitude and longitude in degrees. A zero distance returns
// the start point unchanged whatever the bearing.
func Destination(latDeg, lonDeg, bearingDeg, distanceKm float64) (destLatDeg, destLonDeg float64) {
	if distanceKm == 0 {
		return latDeg, lonDeg
	}

	s := distanceKm * 1000.0
	phi1 := latDeg * deg2rad
	sinAlpha1, cosAlpha1 := math.Sincos(bearingDeg * deg2rad)

	tanU1 := (1 - wgs84F) * math.Tan(phi1)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cos2Alpha := 1 - sinAlpha*sinAlpha
	u2 := cos2Alpha * (wgs84A*wgs84A - wgs84B*wgs84B) / (wgs84B * wgs84B)
	a := 1 + u2/16384*(4096+u2*(-768+u2*(320-175*u2)))
	b := u2 / 1024 * (256 + u2*(-128+u2*(74-47*u2)))

	sigma := s / (wgs84B * a)
	var sinSigma, cosSigma, cos2SigmaM float64
	for i := 0; i < vincentyMaxIter; i++ {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma, cosSigma = math.Sincos(sigma)
		deltaSigma := b * sinSigma * (cos2SigmaM + b/4*
			(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
				b/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		next := s/(wgs84B*a) + deltaSigma
		if math.Abs(next-sigma) < vincentyTolerance {
			sigma = next
			break
		}
		sigma = next
	}
	cos2SigmaM = math.Cos(2*sigma1 + sigma)
	sinSigma, cosSigma = math.Sincos(sigma)

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	phi2 := math.Atan2(
		sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-wgs84F)*math.Sqrt(sinAlpha*sinAlpha+tmp*tmp),
	)
	lambda := math.Atan2(
		sinSigma*sinAlpha1,
		cosU1*cosSigma-sinU1*sinSigma*cosAlpha1,
	)
	c := wgs84F / 16 * cos2Alpha * (4 + wgs84F*(4-3*cos2Alpha))
	dl := lambda - (1-c)*wgs84F*sinAlpha*
		(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	return phi2 * rad2deg, normalizeLon(lonDeg + dl*rad2deg)
}

// normalizeLon wraps a longitude into (-180, 180].
func normalizeLon(lonDeg float64) float64 {
	for lonDeg > 180 {
		lonDeg -= 360
	}
	for lonDeg <= -180 {
		lonDeg += 360
	}
	return lonDeg
}

// Project maps a single local offset from the hypocenter to a
// geographic point. The planar (north, east) displacement becomes a
// bearing and distance for the direct solution; depth combines by
// plain addition with no ellipsoidal correction.
func Project(h locfile.Hypocenter, northKm, eastKm, depthKm float64) GeographicPoint {
	pt := GeographicPoint{
		LatDeg:  h.LatDeg,
		LonDeg:  h.LonDeg,
		DepthKm: h.DepthKm + depthKm,
	}
	dist := math.Hypot(northKm, eastKm)
	if dist == 0 {
		return pt
	}
	pt.LatDeg, pt.LonDeg = Destination(h.LatDeg, h.LonDeg, Bearing(northKm, eastKm), dist)
	return pt
}

// ProjectMesh projects every mesh vertex independently and returns the
// results in the mesh's grid order. Each vertex depends only on the
// hypocenter and its own offsets, so no state carries between points.
func ProjectMesh(h locfile.Hypocenter, m *mesh.Mesh) []GeographicPoint {
	pts := make([]GeographicPoint, len(m.Points))
	for k, p := range m.Points {
		pts[k] = Project(h, p.North, p.East, p.Depth)
	}
	return pts
}
