// Package render draws projected surfaces as map and cross-section
// scatter plots and assembles the PDF run report.
package render

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/seismo/quakeviz/internal/pipeline"
)

const (
	plotWidth  = vg.Length(800)
	plotHeight = vg.Length(600)
)

// PlotRenderer accumulates surfaces onto two canvases: a map view
// (longitude against latitude) and a cross section (longitude against
// depth, depth increasing downward).
type PlotRenderer struct {
	mapPlot     *plot.Plot
	sectionPlot *plot.Plot
}

// NewPlotRenderer builds the two empty plots.
func NewPlotRenderer() *PlotRenderer {
	mp := plot.New()
	mp.Title.Text = "Confidence ellipsoids, map view"
	mp.X.Label.Text = "Longitude (deg)"
	mp.Y.Label.Text = "Latitude (deg)"
	mp.Add(plotter.NewGrid())

	sp := plot.New()
	sp.Title.Text = "Confidence ellipsoids, cross section"
	sp.X.Label.Text = "Longitude (deg)"
	sp.Y.Label.Text = "Depth (km)"
	// Depth axis runs downward, deeper is lower.
	sp.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	sp.Add(plotter.NewGrid())

	return &PlotRenderer{mapPlot: mp, sectionPlot: sp}
}

// RenderSurface implements pipeline.Renderer. The surface lands on
// both plots as scatter points in the surface's color.
func (r *PlotRenderer) RenderSurface(s pipeline.Surface) error {
	mapPts := make(plotter.XYs, len(s.Points))
	secPts := make(plotter.XYs, len(s.Points))
	for i, p := range s.Points {
		mapPts[i] = plotter.XY{X: p.LonDeg, Y: p.LatDeg}
		secPts[i] = plotter.XY{X: p.LonDeg, Y: p.DepthKm}
	}

	mapScatter, err := plotter.NewScatter(mapPts)
	if err != nil {
		return fmt.Errorf("map scatter for %s record %d: %w", s.File, s.Record, err)
	}
	mapScatter.GlyphStyle.Color = s.Color
	mapScatter.GlyphStyle.Radius = vg.Points(1)
	mapScatter.GlyphStyle.Shape = draw.CircleGlyph{}
	r.mapPlot.Add(mapScatter)

	secScatter, err := plotter.NewScatter(secPts)
	if err != nil {
		return fmt.Errorf("section scatter for %s record %d: %w", s.File, s.Record, err)
	}
	secScatter.GlyphStyle.Color = s.Color
	secScatter.GlyphStyle.Radius = vg.Points(1)
	secScatter.GlyphStyle.Shape = draw.CircleGlyph{}
	r.sectionPlot.Add(secScatter)

	return nil
}

// MapPNG renders the map view to PNG bytes.
func (r *PlotRenderer) MapPNG() ([]byte, error) {
	return pngBytes(r.mapPlot)
}

// SectionPNG renders the cross section to PNG bytes.
func (r *PlotRenderer) SectionPNG() ([]byte, error) {
	return pngBytes(r.sectionPlot)
}

func pngBytes(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("creating plot writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding plot: %w", err)
	}
	return buf.Bytes(), nil
}
