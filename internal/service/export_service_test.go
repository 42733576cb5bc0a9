package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hurdl/internal/model"
)

func TestExport_Workbook(t *testing.T) {
	svc := NewExportService(newTestDashboard(t, seededRepo()))

	data, err := svc.Export(context.Background(), model.DashboardQuery{Department: "Sales"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetResponses, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetResponses)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ResponseExportHeader, rows[0])
	assert.Equal(t, "Sales", rows[1][2])
	assert.Equal(t, "HQ", rows[1][3])
	assert.Equal(t, "2", rows[1][4])
	assert.Equal(t, "too much work", rows[1][12])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value", "Band"}, summary[0])
	assert.Equal(t, "Responses", summary[1][0])
	assert.Equal(t, "2", summary[1][1])
	assert.Equal(t, "Wellbeing index", summary[3][0])
	assert.Equal(t, "2.5", summary[3][1])
	assert.Equal(t, "moderate", summary[3][2])
}

func TestExport_DegradedStoreGivesHeaderOnly(t *testing.T) {
	repo := seededRepo()
	repo.fail = true
	svc := NewExportService(newTestDashboard(t, repo))

	data, err := svc.Export(context.Background(), model.DashboardQuery{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetResponses)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
