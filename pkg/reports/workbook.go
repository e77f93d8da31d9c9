// Package reports builds period water quality workbooks and archives them.
package reports

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"p9e.in/riverai/models"
)

const (
	sheetSummary = "Summary"
	sheetSamples = "Samples"
	sheetAlerts  = "Alerts"
)

// Data is everything one report shows.
type Data struct {
	Period      Period
	Day         time.Time
	From, To    time.Time
	GeneratedAt time.Time
	Industry    models.Industry
	OwnerEmail  string
	Samples     []models.WaterQualitySample
	Alerts      []models.Alert
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

// Build renders the workbook.
func Build(d Data) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetSamples); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetAlerts); err != nil {
		return nil, err
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F6F8B"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	// Summary
	f.SetCellValue(sheetSummary, "A1", d.Period.Title())
	f.SetCellStyle(sheetSummary, "A1", "A1", titleStyle)
	summary := [][2]string{
		{"Industry", d.Industry.Name},
		{"Type", orNotSpecified(d.Industry.IndustryType)},
		{"Owner Email", orNotSpecified(d.OwnerEmail)},
		{"Address", orNotSpecified(d.Industry.Location)},
		{"Contact", orNotSpecified(d.Industry.PhoneNumber)},
		{"Period", d.Period.Label(d.Day)},
		{"From", d.From.Format(time.RFC3339)},
		{"To", d.To.Format(time.RFC3339)},
		{"Samples", fmt.Sprint(len(d.Samples))},
		{"Alerts", fmt.Sprint(len(d.Alerts))},
		{"Generated", d.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	for i, kv := range summary {
		row := i + 3
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", row), kv[0])
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", row), kv[1])
	}
	f.SetColWidth(sheetSummary, "A", "A", 16)
	f.SetColWidth(sheetSummary, "B", "B", 40)

	// Samples
	sampleHeader := []interface{}{"Measured At", "Kit", "pH", "Turbidity", "Temperature", "TDS", "Dissolved Oxygen"}
	if err := writeHeader(f, sheetSamples, sampleHeader, headerStyle); err != nil {
		return nil, err
	}
	for i, s := range d.Samples {
		row := []interface{}{s.MeasuredAt.Format("2006-01-02 15:04:05"), string(s.KitType)}
		for _, p := range models.Parameters {
			r, _ := s.Reading(p)
			row = append(row, cellValue(r))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetSamples, cell, &row); err != nil {
			return nil, err
		}
	}

	// Alerts
	alertHeader := []interface{}{"Alert Time", "Parameter", "Current Value", "Threshold Value", "Sample Measured At"}
	if err := writeHeader(f, sheetAlerts, alertHeader, headerStyle); err != nil {
		return nil, err
	}
	for i, a := range d.Alerts {
		row := []interface{}{
			a.AlertDatetime.Format("2006-01-02 15:04:05"),
			a.Parameter,
			a.CurrentValue,
			a.ThresholdValue,
			a.WaterQualityMeasuredAt.Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetAlerts, cell, &row); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, header []interface{}, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	f.SetCellStyle(sheet, "A1", last, style)
	f.SetColWidth(sheet, "A", "A", 20)
	return nil
}

// cellValue writes numeric readings as numbers and anything else verbatim.
func cellValue(r models.Reading) interface{} {
	if v, ok := r.Float(); ok {
		return v
	}
	return string(r)
}
