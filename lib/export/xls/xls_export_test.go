package xlsexport

import (
	"testing"
	"time"

	dbmodels "labstock-backend/models/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportExpenses(t *testing.T) {
	completed := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	list := []dbmodels.ApprovedRequest{
		{
			BaseModel:   dbmodels.BaseModel{ID: "ap-1"},
			LabID:       "lab-1",
			CompletedAt: &completed,
			EquipmentExpenses: dbmodels.EquipmentExpenses{
				{Name: "Pipette", ApprovedQuantity: 2, UnitPrice: decimal.RequireFromString("5.25"), AmountSpent: decimal.RequireFromString("10.50")},
				{Name: "Gloves", ApprovedQuantity: 1, UnitPrice: decimal.Zero, AmountSpent: decimal.RequireFromString("3.00")},
			},
		},
	}
	buf, err := impl{}.ExportExpenses(list, map[string]string{"lab-1": "Chemistry"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(expensesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, expenseHeaders, rows[0])
	require.Equal(t, "Chemistry", rows[1][0])
	require.Equal(t, "05.03.2024", rows[1][2])
	require.Equal(t, "Pipette", rows[1][3])
	require.Equal(t, "Total", rows[3][0])
	total, err := f.GetCellValue(expensesSheet, "G4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Equal(t, "13.5", total)
}

func TestExportExpensesEmpty(t *testing.T) {
	buf, err := impl{}.ExportExpenses(nil, nil)
	require.NoError(t, err)
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(expensesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
