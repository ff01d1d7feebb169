package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/seismo/quakeviz/internal/pipeline"
)

const (
	inchToMm         = 25.4
	reportMargin     = 0.5 * inchToMm
	reportPageWidth  = 11 * inchToMm // Letter landscape
	reportContentW   = reportPageWidth - 2*reportMargin
	reportLineHeight = 6.0
)

// WriteReport assembles the PDF for a run: a summary table on the
// first page, then the map and cross-section images on their own
// pages. Empty image slices are skipped, so a report can carry the
// summary alone.
func WriteReport(path string, sum pipeline.Summary, mapPNG, sectionPNG []byte) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(reportMargin, reportMargin, reportMargin)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(reportContentW, 10, "Earthquake Location Confidence Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Files processed", fmt.Sprintf("%d", sum.Files)},
		{"Records rendered", fmt.Sprintf("%d", sum.Records)},
		{"Elapsed", sum.Elapsed.Round(time.Millisecond).String()},
	}
	if minKm, maxKm, ok := sum.Depths.Bounds(); ok {
		rows = append(rows, [2]string{
			"Depth range",
			fmt.Sprintf("%.2f km to %.2f km", minKm, maxKm),
		})
	}

	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, reportLineHeight, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(100, reportLineHeight, row[1], "1", 1, "L", false, 0, "")
	}

	images := []struct {
		name string
		data []byte
	}{
		{"map.png", mapPNG},
		{"section.png", sectionPNG},
	}
	for _, img := range images {
		if len(img.data) == 0 {
			continue
		}
		pdf.AddPage()
		pdf.RegisterImageReader(img.name, "PNG", bytes.NewReader(img.data))
		// Height 0 keeps the image's aspect ratio.
		pdf.Image(img.name, reportMargin, reportMargin+4, reportContentW, 0, false, "PNG", 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
