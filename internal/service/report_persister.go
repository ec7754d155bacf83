package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"inkwell-report-backend/internal/model"
	"inkwell-report-backend/utilities"
)

const htmlPlaceholder = "<html><body><h1>Rapor Oluşturuldu</h1></body></html>"

// ReportPersister writes reports under a single output directory, one file
// per format named by report id.
type ReportPersister struct {
	outputDir string
	log       *utilities.Logger
}

func NewReportPersister(outputDir string, log *utilities.Logger) *ReportPersister {
	if outputDir == "" {
		outputDir = "reports"
	}
	if log == nil {
		log = utilities.NewNopLogger()
	}
	return &ReportPersister{outputDir: outputDir, log: log}
}

// Persist writes report in format (json, html or pdf) and returns the file
// path. Any failure, an unknown format included, yields "" and a warning.
func (p *ReportPersister) Persist(report *model.Report, format string) string {
	var reportID string
	if report != nil {
		reportID = report.ReportID
	}
	path, err := p.persist(report, format)
	if err != nil {
		p.log.Warn("failed to persist report", "report_id", reportID, "format", format, "error", err)
		return ""
	}
	p.log.Info("report persisted", "report_id", reportID, "path", path)
	return path
}

// PersistAll persists every format and returns the paths that were written.
func (p *ReportPersister) PersistAll(report *model.Report, formats []string) map[string]string {
	if len(formats) == 0 {
		return nil
	}
	files := make(map[string]string, len(formats))
	for _, f := range formats {
		if path := p.Persist(report, f); path != "" {
			files[f] = path
		}
	}
	return files
}

func (p *ReportPersister) persist(report *model.Report, format string) (string, error) {
	if report == nil {
		return "", fmt.Errorf("nil report")
	}
	format = strings.ToLower(format)

	var write func(path string) error
	switch format {
	case "json":
		write = func(path string) error { return writeJSON(path, report) }
	case "html":
		write = func(path string) error { return os.WriteFile(path, []byte(htmlPlaceholder), 0o644) }
	case "pdf":
		write = func(path string) error { return writePDF(path, report) }
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(p.outputDir, report.ReportID+"."+format)
	if err := write(path); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, report *model.Report) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writePDF(path string, report *model.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	c := report.Content
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr("Gelişim Raporu"))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	for _, line := range []string{
		"Öğrenci: " + c.StudentName,
		"Sınıf: " + c.Grade,
		"Değerlendirme tarihi: " + c.AssessmentDate,
		"Değerlendiren: " + c.Assessor,
		"Rapor: " + report.ReportID + " (" + report.Date + ")",
	} {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	section := func(title string, items []string) {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 11)
		for _, item := range items {
			pdf.MultiCell(0, 6, tr("- "+strings.TrimSpace(item)), "", "L", false)
			pdf.Ln(2)
		}
	}
	section("Güçlü Yönler", c.Strengths)
	section("Gelişim Alanları", c.GrowthAreas)

	summary := make([]string, 0, len(c.Summary))
	for _, cat := range slices.Sorted(maps.Keys(c.Summary)) {
		summary = append(summary, fmt.Sprintf("%s: %d", cat, c.Summary[cat]))
	}
	section("Özet", summary)

	return pdf.OutputFileAndClose(path)
}
