// Package excel reads specimen data from xlsx/csv workbooks and writes
// analysis results back out. It owns all spreadsheet-layout knowledge;
// the analysis core only ever sees cleaned numeric sample arrays.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/core"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/curve"
	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

const (
	// maxSheets caps the per-workbook sheet scan.
	maxSheets = 10
	// nameSearchRows is how deep the numeric-start probe looks.
	nameSearchRows = 15
	// minCurveRows is the smallest column pair worth keeping.
	minCurveRows = 4
	// minStress filters placeholder zero columns and summary cells.
	minStress = 0.001
)

// invalidNameKeywords are header/unit tokens that can never be specimen
// names.
var invalidNameKeywords = []string{
	"%", "mpa", "gpa", "kn", "mm", "cm",
	"strain", "stress", "load", "extension", "displacement", "force",
	"time", "sec", "min", "machine", "specimen", "date", "no.", "id",
}

// Loader reads specimen records from an xlsx or csv file.
type Loader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewLoader creates a loader for the given file, picking the format from
// the extension.
func NewLoader(filePath string) *Loader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Loader{filePath: filePath, fileType: fileType}
}

// Load extracts every sample the workbook holds for the given mode.
// Tensile prefers column-pair curves with a row-summary fallback;
// compressive prefers the row-based summary layout.
func (l *Loader) Load(ctx context.Context, mode mech.LoadingMode) ([]curve.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(l.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file not found: %s", l.filePath)
	}

	sheets, err := l.readSheets()
	if err != nil {
		return nil, err
	}

	source := filepath.Base(l.filePath)
	var samples []curve.Sample
	for _, sheet := range sheets {
		parsed := parseGrid(sheet.rows, mode)
		for i := range parsed {
			parsed[i].ID = core.NewSampleID()
			parsed[i].SheetName = sheet.name
			parsed[i].SourceFile = source
		}
		samples = append(samples, parsed...)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no usable samples in %s", core.ErrInsufficientData, source)
	}

	log.Printf("[Loader] %s: %d samples from %d sheet(s)", source, len(samples), len(sheets))
	return samples, nil
}

type sheetRows struct {
	name string
	rows [][]string
}

func (l *Loader) readSheets() ([]sheetRows, error) {
	if l.fileType == "csv" {
		f, err := os.Open(l.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV file: %w", err)
		}
		return []sheetRows{{name: "CSV", rows: rows}}, nil
	}

	f, err := excelize.OpenFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) > maxSheets {
		names = names[:maxSheets]
	}
	var sheets []sheetRows
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		sheets = append(sheets, sheetRows{name: name, rows: rows})
	}
	return sheets, nil
}

// parseGrid tries the layout the mode usually ships in, then falls back
// to the other one.
func parseGrid(rows [][]string, mode mech.LoadingMode) []curve.Sample {
	if mode == mech.ModeCompressive {
		if samples := parseRowSummary(rows); len(samples) > 0 {
			return samples
		}
		return parseColumnCurves(rows)
	}
	if len(rows) >= preprocessFloor {
		if samples := parseColumnCurves(rows); len(samples) > 0 {
			return samples
		}
	}
	return parseRowSummary(rows)
}

// preprocessFloor mirrors the analysis minimum: grids shorter than this
// cannot hold a curve.
const preprocessFloor = 5

// parseColumnCurves reads (strain, stress) column pairs. The numeric
// block may start below header rows; the specimen name is the nearest
// non-unit text above it.
func parseColumnCurves(rows [][]string) []curve.Sample {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	var samples []curve.Sample
	for c := 0; c+1 < cols; c += 2 {
		dataStart := -1
		probe := len(rows)
		if probe > nameSearchRows {
			probe = nameSearchRows
		}
		for r := 0; r < probe; r++ {
			if _, ok := parseFloat(cell(rows, r, c)); !ok {
				continue
			}
			if _, ok := parseFloat(cell(rows, r, c+1)); ok {
				dataStart = r
				break
			}
		}
		if dataStart < 0 {
			continue
		}

		name := fmt.Sprintf("Specimen_%d", c/2+1)
		for r := dataStart - 1; r >= 0; r-- {
			candidate := strings.TrimSpace(cell(rows, r, c))
			if candidate == "" {
				candidate = strings.TrimSpace(cell(rows, r, c+1))
			}
			if candidate != "" && !isInvalidName(candidate) {
				name = candidate
				break
			}
		}

		var strain, stress []float64
		for r := dataStart; r < len(rows); r++ {
			e, okE := parseFloat(cell(rows, r, c))
			s, okS := parseFloat(cell(rows, r, c+1))
			if !okE || !okS {
				continue
			}
			strain = append(strain, e)
			stress = append(stress, s)
		}
		if len(strain) < minCurveRows || maxAbs(stress) <= minStress {
			continue
		}
		samples = append(samples, curve.Sample{
			Name:   name,
			Kind:   curve.KindCurve,
			Strain: strain,
			Stress: stress,
		})
	}
	return samples
}

// parseRowSummary reads the "Name Value1 Value2" compressive layout. A
// name carries forward across rows until the next one appears, and a
// bare leading index number before the name is discarded.
func parseRowSummary(rows [][]string) []curve.Sample {
	var samples []curve.Sample
	currentName := "Sample_Unknown"

	for _, row := range rows {
		var numbers []float64
		namedThisRow := false

		for _, raw := range row {
			text := strings.TrimSpace(raw)
			if text == "" {
				continue
			}
			if v, ok := parseFloat(text); ok {
				numbers = append(numbers, v)
				continue
			}
			if namedThisRow || isInvalidName(text) {
				continue
			}
			// A name appearing after numbers means those numbers were a
			// row index, not data.
			if len(numbers) > 0 && len(numbers) < 3 {
				numbers = numbers[:0]
			}
			currentName = text
			namedThisRow = true
		}

		for _, v := range numbers {
			if v <= minStress {
				continue
			}
			samples = append(samples, curve.Sample{
				Name:   currentName,
				Kind:   curve.KindSummary,
				Strain: []float64{0},
				Stress: []float64{v},
			})
		}
	}
	return samples
}

// isInvalidName rejects pure numbers and unit/header tokens.
func isInvalidName(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return true
	}
	if _, ok := parseFloat(lower); ok {
		return true
	}
	for _, kw := range invalidNameKeywords {
		if lower == kw || strings.Contains(lower, "("+kw+")") {
			return true
		}
	}
	return false
}

func cell(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func maxAbs(vals []float64) float64 {
	m := 0.0
	for _, v := range vals {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
