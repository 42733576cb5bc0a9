package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"hurdl/internal/model"
)

// Workbook sheet names
const (
	SheetResponses = "Responses"
	SheetSummary   = "Summary"
)

// ResponseExportHeader is the header row of the Responses sheet
var ResponseExportHeader = append([]string{"response_id", "timestamp", "department", "location"},
	append(append([]string{}, model.ScaleKeys...), model.TextKeys...)...)

// ExportService renders the dashboard as an xlsx workbook
type ExportService struct {
	dashboard *DashboardService
}

// NewExportService creates a new export service
func NewExportService(dashboard *DashboardService) *ExportService {
	return &ExportService{dashboard: dashboard}
}

// Export builds a workbook with the filtered responses and a metric summary
func (s *ExportService) Export(ctx context.Context, q model.DashboardQuery) ([]byte, error) {
	d, err := s.dashboard.Build(ctx, q)
	if err != nil {
		return nil, err
	}
	responses := []*model.Response{}
	if !d.Degraded {
		responses, err = s.dashboard.Responses(ctx, d.Query)
		if err != nil {
			return nil, err
		}
	}
	return RenderWorkbook(d, responses)
}

// RenderWorkbook writes the dashboard and its responses to xlsx bytes
func RenderWorkbook(d *model.Dashboard, responses []*model.Response) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetResponses)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeResponses(f, responses, headerStyle); err != nil {
		return nil, err
	}
	if err := writeSummary(f, d, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func writeResponses(f *excelize.File, responses []*model.Response, headerStyle int) error {
	if err := writeRow(f, SheetResponses, 1, toCells(ResponseExportHeader)); err != nil {
		return err
	}
	if err := styleRow(f, SheetResponses, 1, len(ResponseExportHeader), headerStyle); err != nil {
		return err
	}

	for i, r := range responses {
		row := []interface{}{r.ResponseID, r.Timestamp.UTC().Format("2006-01-02 15:04:05"), r.Department, r.Location}
		for _, k := range model.ScaleKeys {
			if v, ok := r.Scale(k); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		for _, k := range model.TextKeys {
			if v, ok := r.Text(k); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		if err := writeRow(f, SheetResponses, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetResponses, "A", "A", 38); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(SheetResponses, "B", "D", 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetPanes(SheetResponses, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, d *model.Dashboard, headerStyle int) error {
	rows := [][]interface{}{
		{"Metric", "Value", "Band"},
		{"Responses", d.ResponseCount, ""},
		{"Total responses", d.TotalResponses, ""},
		{"Wellbeing index", d.Wellbeing.Value, d.Wellbeing.Band},
		{"Psychological safety", d.PsychologicalSafety.Value, d.PsychologicalSafety.Band},
		{"Sentiment", d.SentimentCard.Value, d.SentimentCard.Band},
		{"Workload", d.Workload.Overall, ""},
	}
	if d.Query.Start != nil && d.Query.End != nil {
		rows = append(rows, []interface{}{"Period",
			d.Query.Start.Format("2006-01-02") + " to " + d.Query.End.Format("2006-01-02"), ""})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Department", "Responses"})
	countHeader := len(rows)
	for _, c := range d.Breakdowns.ResponsesByDepartment {
		rows = append(rows, []interface{}{c.Category, c.Count})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Alert", "Current", "Previous", "Change", "Change %", "Direction", "Severity"})
	alertHeader := len(rows)
	for _, a := range d.Trends {
		rows = append(rows, []interface{}{a.Metric, a.Current, a.Previous, a.Change, a.PercentChange, a.Direction, a.Severity})
	}

	for i, row := range rows {
		if err := writeRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	for _, h := range []struct{ row, cols int }{{1, 3}, {countHeader, 2}, {alertHeader, 7}} {
		if err := styleRow(f, SheetSummary, h.row, h.cols, headerStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 28); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A"+strconv.Itoa(row), last, style); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
