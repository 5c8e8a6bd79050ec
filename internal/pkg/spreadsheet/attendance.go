package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SheetAttendance = "Attendance"
	SheetToday      = "Today"
)

var ErrEmptyReport = errors.New("failed to generate workbook, report has no attendance chart")

// Generator holds the workbook being built
type Generator struct {
	file        *excelize.File
	headerStyle int
}

func NewGenerator() (*Generator, error) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	return &Generator{file: f, headerStyle: style}, nil
}

// GenerateAttendanceWorkbook renders the report chart, one row per bucket plus a totals row.
// Organization reports get a second sheet with today's snapshot.
func GenerateAttendanceWorkbook(report *stats.Report) (*bytes.Buffer, error) {
	if report == nil || len(report.Chart()) == 0 {
		return nil, ErrEmptyReport
	}

	gen, err := NewGenerator()
	if err != nil {
		return nil, err
	}
	defer gen.file.Close()

	// The default sheet becomes the attendance sheet
	if err = gen.file.SetSheetName("Sheet1", SheetAttendance); err != nil {
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if err = gen.addChartSheet(report.Chart()); err != nil {
		return nil, err
	}

	if report.Organization != nil {
		if err = gen.addTodaySheet(report.Organization); err != nil {
			return nil, err
		}
	}

	gen.file.SetActiveSheet(0)

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer, nil
}

func (g *Generator) addChartSheet(points []stats.ChartPoint) error {
	if err := g.setHeader(SheetAttendance, []string{"Period", "Present", "Late"}); err != nil {
		return err
	}

	var present, late int64
	for i, p := range points {
		if err := g.setRow(SheetAttendance, i+2, []interface{}{p.Date, p.Present, p.Late}); err != nil {
			return err
		}
		present += p.Present
		late += p.Late
	}

	if err := g.setRow(SheetAttendance, len(points)+2, []interface{}{"Total", present, late}); err != nil {
		return err
	}

	if err := g.file.SetColWidth(SheetAttendance, "A", "C", 14); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func (g *Generator) addTodaySheet(org *stats.OrganizationReport) error {
	if _, err := g.file.NewSheet(SheetToday); err != nil {
		return fmt.Errorf("failed to create sheet '%s': %w", SheetToday, err)
	}
	if err := g.setHeader(SheetToday, []string{"Status", "Employees"}); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"On Time", org.TodayAttendance.OnTime},
		{"Late", org.TodayAttendance.Late},
		{"Absent", org.TodayAttendance.Absent},
		{"Total", org.TodayAttendance.Total},
	}
	for i, row := range rows {
		if err := g.setRow(SheetToday, i+2, row); err != nil {
			return err
		}
	}

	if err := g.file.SetColWidth(SheetToday, "A", "B", 14); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func (g *Generator) setHeader(sheet string, headers []string) error {
	if err := g.file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set header row on '%s': %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := g.file.SetCellStyle(sheet, "A1", last, g.headerStyle); err != nil {
		return fmt.Errorf("failed to set header style on '%s': %w", sheet, err)
	}
	return nil
}

func (g *Generator) setRow(sheet string, rowNum int, values []interface{}) error {
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := g.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to set row %d on '%s': %w", rowNum, sheet, err)
	}
	return nil
}
