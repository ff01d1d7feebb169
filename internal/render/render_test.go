package render_test

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seismo/quakeviz/internal/pipeline"
	"github.com/seismo/quakeviz/internal/render"
	"github.com/seismo/quakeviz/internal/transform"
)

func testSurface(record int) pipeline.Surface {
	return pipeline.Surface{
		File:   "loc1.txt",
		Record: record,
		Rows:   2,
		Cols:   2,
		Points: []transform.GeographicPoint{
			{LatDeg: 36.0, LonDeg: -117.5, DepthKm: 8},
			{LatDeg: 36.1, LonDeg: -117.4, DepthKm: 9},
			{LatDeg: 35.9, LonDeg: -117.6, DepthKm: 7},
			{LatDeg: 36.05, LonDeg: -117.45, DepthKm: 8.5},
		},
		ColorIndex: 3,
		Color:      color.RGBA{R: 255, A: 255},
	}
}

func TestPlotRendererPNGs(t *testing.T) {
	r := render.NewPlotRenderer()
	require.NoError(t, r.RenderSurface(testSurface(1)))
	require.NoError(t, r.RenderSurface(testSurface(2)))

	mapPNG, err := r.MapPNG()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(mapPNG))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
	assert.Positive(t, img.Bounds().Dy())

	secPNG, err := r.SectionPNG()
	require.NoError(t, err)
	img, err = png.Decode(bytes.NewReader(secPNG))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
	assert.Positive(t, img.Bounds().Dy())
}

func TestRenderSurfaceRejectsInfinite(t *testing.T) {
	r := render.NewPlotRenderer()
	s := testSurface(1)
	s.Points[0].LonDeg = math.Inf(1)

	err := r.RenderSurface(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}

func TestWriteReport(t *testing.T) {
	r := render.NewPlotRenderer()
	require.NoError(t, r.RenderSurface(testSurface(1)))

	mapPNG, err := r.MapPNG()
	require.NoError(t, err)
	secPNG, err := r.SectionPNG()
	require.NoError(t, err)

	sum := pipeline.Summary{Files: 1, Records: 2, Elapsed: 1500 * time.Millisecond}
	sum.Depths.Observe(4)
	sum.Depths.Observe(20)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, render.WriteReport(path, sum, mapPNG, secPNG))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Greater(t, len(data), 5000)
}

func TestWriteReportWithoutImages(t *testing.T) {
	sum := pipeline.Summary{Files: 3, Records: 7, Elapsed: time.Second}

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, render.WriteReport(path, sum, nil, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
