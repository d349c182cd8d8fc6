package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"

	"nuclearfleet/internal/config"
	apperrors "nuclearfleet/internal/errors"
	"nuclearfleet/pkg/contracts/domain"
)

//go:embed templates/chart.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/chart.html.tmpl"))

// Document is a rendered, self-contained chart page
type Document struct {
	Title      string
	SeriesName string
	SVG        []byte
	Aggregates []domain.YearlyAggregate

	fills map[int]string
	html  []byte
}

type tableRow struct {
	Year       int
	Count      int
	AverageAge string
	Fill       template.CSS
}

type pageData struct {
	Title   string
	Caption string
	SVG     template.HTML
	Rows    []tableRow
	Series  []domain.YearlyAggregate
}

func (d *Document) build() error {
	rows := make([]tableRow, len(d.Aggregates))
	for i, a := range d.Aggregates {
		rows[i] = tableRow{
			Year:       a.Year,
			Count:      a.Count,
			AverageAge: fmt.Sprintf("%.2f", a.AverageAge),
			Fill:       template.CSS(d.fills[a.Year]),
		}
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Title:   d.Title,
		Caption: d.SeriesName,
		SVG:     template.HTML(inlineSVG(d.SVG)),
		Rows:    rows,
		Series:  d.Aggregates,
	})
	if err != nil {
		return err
	}
	d.html = buf.Bytes()
	return nil
}

// HTML returns the complete page
func (d *Document) HTML() []byte {
	return d.html
}

// WriteHTML writes the page to w
func (d *Document) WriteHTML(w io.Writer) error {
	if _, err := w.Write(d.html); err != nil {
		return apperrors.NewRenderError("failed to write HTML", err)
	}
	return nil
}

// WriteFile writes the page to path, replacing any existing file
func (d *Document) WriteFile(path string) error {
	if err := config.EnsureDir(path); err != nil {
		return apperrors.NewFileError("failed to create output directory", err).
			WithContext("path", path)
	}
	if err := os.WriteFile(path, d.html, 0644); err != nil {
		return apperrors.NewFileError("failed to write chart", err).
			WithContext("path", path)
	}
	return nil
}

// inlineSVG drops the XML prolog so the drawing can sit inside HTML
func inlineSVG(svg []byte) []byte {
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		return svg[i:]
	}
	return svg
}
