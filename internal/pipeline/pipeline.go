// Package pipeline orchestrates a visualization run: select location
// files, parse them, build and project each record's ellipsoid
// surface, color it by depth, and hand it to a renderer.
package pipeline

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/seismo/quakeviz/internal/colormap"
	"github.com/seismo/quakeviz/internal/locfile"
	"github.com/seismo/quakeviz/internal/mesh"
	"github.com/seismo/quakeviz/internal/metrics"
	"github.com/seismo/quakeviz/internal/transform"
)

// FileSelector expands a glob pattern into an ordered list of files.
type FileSelector interface {
	SelectFiles(pattern string) ([]string, error)
}

// Renderer receives surfaces one at a time, in file order, as the run
// produces them.
type Renderer interface {
	RenderSurface(s Surface) error
}

// Surface is one record's confidence ellipsoid, projected and colored,
// ready to draw.
type Surface struct {
	File   string
	Record int // 1-based position within the file

	// Points holds the projected mesh vertices in row-major grid
	// order, Rows by Cols.
	Rows   int
	Cols   int
	Points []transform.GeographicPoint

	ColorIndex int
	Color      color.Color
}

// Config carries the run parameters.
type Config struct {
	MeshResolution int
	PaletteSize    int
	DepthRepeatKm  float64
}

// Summary describes a completed or aborted run.
type Summary struct {
	Files   int
	Records int
	Depths  colormap.Range
	Elapsed time.Duration
}

// Runner drives the parse-build-project-color loop over a set of
// location files.
type Runner struct {
	selector FileSelector
	renderer Renderer
	colors   *colormap.Map
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	clock    clockwork.Clock
}

// NewRunner validates cfg and builds a Runner. A nil clock defaults to
// the real one.
func NewRunner(sel FileSelector, rend Renderer, logger *slog.Logger, m *metrics.Metrics, clock clockwork.Clock, cfg Config) (*Runner, error) {
	if cfg.MeshResolution < 1 {
		return nil, fmt.Errorf("pipeline: mesh resolution %d, need at least 1", cfg.MeshResolution)
	}
	colors, err := colormap.New(cfg.PaletteSize, cfg.DepthRepeatKm)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{
		selector: sel,
		renderer: rend,
		colors:   colors,
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		clock:    clock,
	}, nil
}

// RunPattern expands pattern through the file selector and processes
// the matches in order.
func (r *Runner) RunPattern(pattern string) (Summary, error) {
	paths, err := r.selector.SelectFiles(pattern)
	if err != nil {
		return Summary{}, fmt.Errorf("selecting files: %w", err)
	}
	r.logger.Info("files selected", "pattern", pattern, "count", len(paths))
	return r.Run(paths)
}

// Run processes the given files in order. The first failure stops the
// run and the returned summary covers only the work completed before
// it.
func (r *Runner) Run(paths []string) (Summary, error) {
	start := r.clock.Now()
	sum, err := r.run(paths)
	sum.Elapsed = r.clock.Since(start)
	return sum, err
}

func (r *Runner) run(paths []string) (Summary, error) {
	var sum Summary

	for _, path := range paths {
		f, err := locfile.ParseFile(path)
		if err != nil {
			r.metrics.ParseFailures.Inc()
			return sum, err
		}
		r.logger.Info("file parsed",
			"path", path,
			"records", len(f.Records),
			"hypocenter_lat", f.Hypocenter.LatDeg,
			"hypocenter_lon", f.Hypocenter.LonDeg,
			"hypocenter_depth_km", f.Hypocenter.DepthKm,
		)

		if err := r.renderFile(f, &sum); err != nil {
			return sum, err
		}

		sum.Files++
		r.metrics.FilesProcessed.Inc()
	}

	return sum, nil
}

// renderFile turns each record of a parsed file into a surface and
// hands it to the renderer.
func (r *Runner) renderFile(f *locfile.File, sum *Summary) error {
	for i, rec := range f.Records {
		recStart := r.clock.Now()

		m, err := mesh.Build(rec, r.cfg.MeshResolution)
		if err != nil {
			return fmt.Errorf("%s record %d: %w", f.Path, i+1, err)
		}

		pts := transform.ProjectMesh(f.Hypocenter, m)
		for _, p := range pts {
			sum.Depths.Observe(p.DepthKm)
		}

		// The whole surface takes the color of its center depth.
		centerKm := f.Hypocenter.DepthKm + rec.DepthKm
		s := Surface{
			File:       f.Path,
			Record:     i + 1,
			Rows:       m.Rows,
			Cols:       m.Cols,
			Points:     pts,
			ColorIndex: r.colors.Index(centerKm),
			Color:      r.colors.Color(centerKm),
		}
		if err := r.renderer.RenderSurface(s); err != nil {
			return fmt.Errorf("rendering %s record %d: %w", f.Path, i+1, err)
		}

		sum.Records++
		r.metrics.RecordsProcessed.Inc()
		r.metrics.MeshPoints.Add(float64(len(pts)))
		r.metrics.RecordDuration.Observe(r.clock.Since(recStart).Seconds())

		r.logger.Debug("record rendered",
			"path", f.Path,
			"record", i+1,
			"points", len(pts),
			"color_index", s.ColorIndex,
			"center_depth_km", centerKm,
		)
	}
	return nil
}
