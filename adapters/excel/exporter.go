package excel

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/liqinglq666/ECC-Analyzer-Pro/domain/mech"
)

// Sheet names in the exported workbook.
const (
	tensileSheet     = "Tensile Analysis"
	compressiveSheet = "Compressive Strength"
)

// tensileHeaders are the scientific column headers, in output order.
var tensileHeaders = []string{
	"Sample ID", "Source File",
	"E_eff (GPa)", "E_init (GPa)",
	"σ_cr (MPa)", "σ_u (MPa)", "ε_tu (%)",
	"E_v (kJ/m³)", "G_F (kJ/m²)",
	"Δε_sh (%)", "CV_σ",
	"Status",
}

var compressiveHeaders = []string{
	"Group", "N", "σ_mean (MPa)", "SD (MPa)", "COV (%)",
}

// notApplicable marks cells whose metric is undefined for the sample,
// as distinct from a computed zero.
const notApplicable = "N/A"

// Exporter renders a batch report into an xlsx workbook.
type Exporter struct{}

// NewExporter creates a result exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Bytes returns the workbook as xlsx bytes.
func (e *Exporter) Bytes(report mech.BatchReport) ([]byte, error) {
	f, err := e.build(report)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Export writes the workbook to a file path.
func (e *Exporter) Export(report mech.BatchReport, path string) error {
	f, err := e.build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (e *Exporter) build(report mech.BatchReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if report.Mode == mech.ModeCompressive {
		if err := e.writeCompressive(f, report); err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	}
	if err := e.writeTensile(f, report); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (e *Exporter) writeTensile(f *excelize.File, report mech.BatchReport) error {
	if err := f.SetSheetName("Sheet1", tensileSheet); err != nil {
		return err
	}
	if err := writeRow(f, tensileSheet, 1, toCells(tensileHeaders)); err != nil {
		return err
	}

	samples := sortedSamples(report.Samples)
	for i, s := range samples {
		row := tensileRow(s)
		if err := writeRow(f, tensileSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// tensileRow flattens one sample into export cells, with unit
// conversions matching the headers: moduli GPa, strains percent.
func tensileRow(s mech.SampleReport) []interface{} {
	row := []interface{}{s.Name, s.SourceFile}

	pad := func(vals ...interface{}) {
		row = append(row, vals...)
	}

	if s.Modulus != nil {
		pad(s.Modulus.EffectiveGPa(), s.Modulus.InitialGPa())
	} else {
		pad(notApplicable, notApplicable)
	}
	if s.Crack != nil && s.Crack.Detected {
		pad(s.Crack.Stress)
	} else {
		pad(notApplicable)
	}
	if s.Ultimate != nil {
		pad(s.Ultimate.Stress, s.Ultimate.TerminalStrain()*100.0)
	} else {
		pad(notApplicable, notApplicable)
	}
	if s.Energy != nil {
		pad(s.Energy.StrainEnergyDensity, s.Energy.FractureEnergy)
	} else {
		pad(notApplicable, notApplicable)
	}
	if s.Ductility != nil && s.Ductility.Applicable {
		pad(s.Ductility.HardeningCapacity*100.0, s.Ductility.PlateauCV)
	} else {
		pad(notApplicable, notApplicable)
	}

	status := "OK"
	if s.Failed() {
		status = s.Error
	} else if s.UnitAmbiguous {
		status = "strain unit ambiguous"
	}
	pad(status)
	return row
}

func (e *Exporter) writeCompressive(f *excelize.File, report mech.BatchReport) error {
	if err := f.SetSheetName("Sheet1", compressiveSheet); err != nil {
		return err
	}
	if err := writeRow(f, compressiveSheet, 1, toCells(compressiveHeaders)); err != nil {
		return err
	}
	for i, g := range report.Groups {
		row := []interface{}{g.Group, g.N, g.Mean, g.SD, g.COV}
		if err := writeRow(f, compressiveSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cellRef, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellRef, v); err != nil {
			return err
		}
	}
	return nil
}

func toCells(headers []string) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}

// sortedSamples orders reports by source file then specimen name so the
// workbook is deterministic across runs.
func sortedSamples(samples []mech.SampleReport) []mech.SampleReport {
	out := make([]mech.SampleReport, len(samples))
	copy(out, samples)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SourceFile != out[j].SourceFile {
			return out[i].SourceFile < out[j].SourceFile
		}
		return out[i].Name < out[j].Name
	})
	return out
}
