package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "nuclearfleet/internal/errors"
	"nuclearfleet/pkg/contracts/domain"
)

const (
	// headerSearchRows bounds how far down the sheet the header row may sit
	headerSearchRows = 10

	// maxSerialDate is 9999-12-31 in the 1900 date system
	maxSerialDate = 2958465
)

// textDateLayouts are tried in order for date cells stored as text
var textDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
	"2.1.2006",
	"01/02/2006",
	"1/2/2006",
	"2006",
}

// Columns names the five date columns of the commissioning workbook
type Columns struct {
	ConstructionStart string
	GridSync          string
	Commercial        string
	Shutdown          string
	Cancelled         string
}

// DefaultColumns returns the German headers used by the source workbook
func DefaultColumns() Columns {
	return Columns{
		ConstructionStart: "Baubeginn",
		GridSync:          "erste Netzsynchronisation",
		Commercial:        "Kommerzieller Betrieb",
		Shutdown:          "Abschaltung",
		Cancelled:         "Bau/Projekt eingestellt",
	}
}

// ParseOptions configures ParseFile
type ParseOptions struct {
	// Sheet defaults to the first sheet of the workbook
	Sheet   string
	Columns Columns
	Logger  *slog.Logger
}

// ParseStats reports what the loader saw
type ParseStats struct {
	Sheet        string
	HeaderRow    int
	Rows         int
	EmptyRows    int
	CellFailures map[string]int
}

// TotalFailures sums the per-column parse failures
func (s ParseStats) TotalFailures() int {
	total := 0
	for _, n := range s.CellFailures {
		total += n
	}
	return total
}

// ParseFile reads the commissioning workbook and returns one record per
// reactor row. Unparseable date cells become missing values.
func ParseFile(filePath string, opts ParseOptions) ([]domain.ReactorRecord, error) {
	records, _, err := ParseFileWithStats(filePath, opts)
	return records, err
}

// ParseFileWithStats is ParseFile plus loader statistics
func ParseFileWithStats(filePath string, opts ParseOptions) ([]domain.ReactorRecord, ParseStats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Columns == (Columns{}) {
		opts.Columns = DefaultColumns()
	}
	stats := ParseStats{CellFailures: make(map[string]int)}

	if _, err := os.Stat(filePath); err != nil {
		return nil, stats, apperrors.NewFileError("input workbook not accessible", err).
			WithContext("path", filePath)
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, stats, apperrors.NewFileError("failed to open workbook", err).
			WithContext("path", filePath)
	}
	defer f.Close()

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	sheetName := opts.Sheet
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, stats, apperrors.NewFileError("workbook has no sheets", nil).
				WithContext("path", filePath)
		}
		sheetName = sheets[0]
	}
	stats.Sheet = sheetName

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, stats, apperrors.NewFileError("failed to read sheet", err).
			WithContext("sheet", sheetName)
	}

	logger.Info("Reading commissioning sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	headerRow, header := findHeader(rows, opts.Columns.Commercial)
	if headerRow == -1 {
		return nil, stats, apperrors.NewFileError(
			fmt.Sprintf("could not find header row containing %q", opts.Columns.Commercial), nil).
			WithContext("sheet", sheetName)
	}
	stats.HeaderRow = headerRow + 1

	columnMap := make(map[string]int, len(header))
	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := columnMap[name]; !dup {
			columnMap[name] = j
		}
	}

	for _, required := range []string{opts.Columns.Commercial, opts.Columns.Shutdown} {
		if _, ok := columnMap[required]; !ok {
			return nil, stats, apperrors.NewFileError(
				fmt.Sprintf("could not find required column: %s", required), nil).
				WithContext("sheet", sheetName)
		}
	}

	dateColumns := map[string]bool{
		opts.Columns.ConstructionStart: true,
		opts.Columns.GridSync:          true,
		opts.Columns.Commercial:        true,
		opts.Columns.Shutdown:          true,
		opts.Columns.Cancelled:         true,
	}

	parseDate := func(row []string, rowNum int, column string) *time.Time {
		idx, ok := columnMap[column]
		if !ok || idx >= len(row) {
			return nil
		}
		var (
			t   *time.Time
			err error
		)
		if isTextCell(f, sheetName, idx, rowNum) {
			t, err = ParseTextDate(row[idx])
		} else {
			t, err = ParseDateCell(row[idx], date1904)
		}
		if err != nil {
			stats.CellFailures[column]++
			logger.Debug("Unparseable date cell",
				slog.Int("row", rowNum),
				slog.String("column", column),
				slog.String("value", row[idx]),
				slog.String("error", err.Error()))
			return nil
		}
		return t
	}

	records := make([]domain.ReactorRecord, 0, len(rows)-headerRow)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			stats.EmptyRows++
			continue
		}
		rowNum := i + 1

		attrs := make(map[string]string)
		for name, idx := range columnMap {
			if dateColumns[name] || idx >= len(row) {
				continue
			}
			attrs[name] = row[idx]
		}

		records = append(records, domain.ReactorRecord{
			Row:               rowNum,
			ConstructionStart: parseDate(row, rowNum, opts.Columns.ConstructionStart),
			GridSync:          parseDate(row, rowNum, opts.Columns.GridSync),
			CommercialDate:    parseDate(row, rowNum, opts.Columns.Commercial),
			ShutdownDate:      parseDate(row, rowNum, opts.Columns.Shutdown),
			Cancelled:         parseDate(row, rowNum, opts.Columns.Cancelled),
			Attributes:        attrs,
		})
	}
	stats.Rows = len(records)

	logger.Info("Processing complete",
		slog.Int("total_records", len(records)),
		slog.Int("empty_rows", stats.EmptyRows),
		slog.Int("date_parse_failures", stats.TotalFailures()))

	return records, stats, nil
}

// ParseDateCell converts a raw cell value into a date. Empty cells yield
// (nil, nil); numeric values are Excel serial dates and must fall within
// 1..9999-12-31; anything else is matched against the text layouts.
func ParseDateCell(raw string, date1904 bool) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial > maxSerialDate {
			return nil, apperrors.NewParsingError("serial date out of range", nil).WithContext("value", value)
		}
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return nil, apperrors.NewParsingError("invalid serial date", err).WithContext("value", value)
		}
		return &t, nil
	}

	return ParseTextDate(value)
}

// ParseTextDate matches a text cell against the known layouts. A bare year
// such as "1975" is 1 January of that year; numbers are never serials here.
func ParseTextDate(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, apperrors.NewParsingError(fmt.Sprintf("unrecognised date %q", value), nil)
}

// isTextCell reports whether the cell at column idx (0-based) of row rowNum
// is stored as a string. Numbers and dates have no type or type "n".
func isTextCell(f *excelize.File, sheet string, idx, rowNum int) bool {
	axis, err := excelize.CoordinatesToCellName(idx+1, rowNum)
	if err != nil {
		return false
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return false
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeDate:
		return true
	}
	return false
}

// findHeader returns the index and cells of the first row naming the
// commercial-operation column.
func findHeader(rows [][]string, commercialColumn string) (int, []string) {
	for i := 0; i < len(rows) && i < headerSearchRows; i++ {
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) == commercialColumn {
				return i, rows[i]
			}
		}
	}
	return -1, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
