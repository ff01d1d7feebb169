package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonboulle/clockwork"

	"github.com/seismo/quakeviz/internal/locfile"
	"github.com/seismo/quakeviz/internal/metrics"
	"github.com/seismo/quakeviz/internal/pipeline"
	"github.com/seismo/quakeviz/internal/render"
)

type outputConfig struct {
	FilePattern string
	OutDir      string
	Report      bool
	MetricsFile string
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	runCfg := loadRunConfig(logger)
	outCfg := loadOutputConfig(logger)

	m := metrics.NewMetrics()
	rend := render.NewPlotRenderer()

	runner, err := pipeline.NewRunner(locfile.GlobSelector{}, rend, logger, m, clockwork.NewRealClock(), runCfg)
	if err != nil {
		logger.Error("invalid run configuration", "error", err)
		os.Exit(1)
	}

	// Explicit paths on the command line win over the glob pattern.
	var sum pipeline.Summary
	var runErr error
	if paths := os.Args[1:]; len(paths) > 0 {
		sum, runErr = runner.Run(paths)
	} else {
		sum, runErr = runner.RunPattern(outCfg.FilePattern)
	}
	if runErr != nil {
		logger.Error("run failed", "error", runErr,
			"files_done", sum.Files, "records_done", sum.Records)
		os.Exit(1)
	}

	if minKm, maxKm, ok := sum.Depths.Bounds(); ok {
		logger.Info("run complete",
			"files", sum.Files,
			"records", sum.Records,
			"min_depth_km", minKm,
			"max_depth_km", maxKm,
			"elapsed", sum.Elapsed.String(),
		)
	} else {
		logger.Info("run complete, nothing rendered", "files", sum.Files)
	}

	if err := os.MkdirAll(outCfg.OutDir, 0o755); err != nil {
		logger.Error("creating output directory", "error", err)
		os.Exit(1)
	}

	mapPNG, err := rend.MapPNG()
	if err != nil {
		logger.Error("rendering map plot", "error", err)
		os.Exit(1)
	}
	sectionPNG, err := rend.SectionPNG()
	if err != nil {
		logger.Error("rendering section plot", "error", err)
		os.Exit(1)
	}

	mapPath := filepath.Join(outCfg.OutDir, "map.png")
	sectionPath := filepath.Join(outCfg.OutDir, "section.png")
	if err := os.WriteFile(mapPath, mapPNG, 0o644); err != nil {
		logger.Error("writing map plot", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(sectionPath, sectionPNG, 0o644); err != nil {
		logger.Error("writing section plot", "error", err)
		os.Exit(1)
	}
	logger.Info("plots written", "map", mapPath, "section", sectionPath)

	if outCfg.Report {
		reportPath := filepath.Join(outCfg.OutDir, "report.pdf")
		if err := render.WriteReport(reportPath, sum, mapPNG, sectionPNG); err != nil {
			logger.Error("writing report", "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", reportPath)
	}

	if outCfg.MetricsFile != "" {
		if err := m.WriteFile(outCfg.MetricsFile); err != nil {
			logger.Error("writing metrics snapshot", "error", err)
			os.Exit(1)
		}
		logger.Info("metrics written", "path", outCfg.MetricsFile)
	}
}

func loadRunConfig(logger *slog.Logger) pipeline.Config {
	cfg := pipeline.Config{
		MeshResolution: 20,
		PaletteSize:    64,
		DepthRepeatKm:  100,
	}

	if v := os.Getenv("QUAKEVIZ_MESH_RESOLUTION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid QUAKEVIZ_MESH_RESOLUTION value, using default", "value", v, "default", cfg.MeshResolution)
		} else {
			cfg.MeshResolution = n
		}
	}

	if v := os.Getenv("QUAKEVIZ_PALETTE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid QUAKEVIZ_PALETTE_SIZE value, using default", "value", v, "default", cfg.PaletteSize)
		} else {
			cfg.PaletteSize = n
		}
	}

	if v := os.Getenv("QUAKEVIZ_DEPTH_REPEAT_KM"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			logger.Warn("invalid QUAKEVIZ_DEPTH_REPEAT_KM value, using default", "value", v, "default", cfg.DepthRepeatKm)
		} else {
			cfg.DepthRepeatKm = f
		}
	}

	logger.Info("run config",
		"mesh_resolution", cfg.MeshResolution,
		"palette_size", cfg.PaletteSize,
		"depth_repeat_km", cfg.DepthRepeatKm,
	)

	return cfg
}

func loadOutputConfig(logger *slog.Logger) outputConfig {
	cfg := outputConfig{
		FilePattern: "*.txt",
		OutDir:      "./out",
		Report:      true,
	}

	if v := os.Getenv("QUAKEVIZ_FILE_PATTERN"); v != "" {
		cfg.FilePattern = v
	}

	if v := os.Getenv("QUAKEVIZ_OUT_DIR"); v != "" {
		cfg.OutDir = v
	}

	if v := os.Getenv("QUAKEVIZ_REPORT"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid QUAKEVIZ_REPORT value, using default", "value", v, "default", cfg.Report)
		} else {
			cfg.Report = enabled
		}
	}

	cfg.MetricsFile = os.Getenv("QUAKEVIZ_METRICS_FILE")

	logger.Info("output config",
		"file_pattern", cfg.FilePattern,
		"out_dir", cfg.OutDir,
		"report", cfg.Report,
		"metrics_file", cfg.MetricsFile,
	)

	return cfg
}
