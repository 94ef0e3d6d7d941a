package budgethandler

import (
	"testing"
	"time"

	xlsexport "labstock-backend/lib/export/xls"
	"labstock-backend/lib/utils/testutil/memstore"
	"labstock-backend/models"
	reportapimodels "labstock-backend/models/api/report"
	dbmodels "labstock-backend/models/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newHandler() (*memstore.DB, impl) {
	d := memstore.New()
	xlsexport.NewHandler()
	d.Labs["lab-1"] = dbmodels.Lab{BaseModel: dbmodels.BaseModel{ID: "lab-1"}, LabName: "Chemistry"}
	d.Labs["lab-2"] = dbmodels.Lab{BaseModel: dbmodels.BaseModel{ID: "lab-2"}, LabName: "Physics"}
	d.Budgets["lab-1"] = dbmodels.LabBudget{
		LabID:                  "lab-1",
		TotalSpent:             decimal.RequireFromString("120.5"),
		ApprovedCount:          2,
		PartiallyApprovedCount: 1,
		CompletedCount:         1,
	}
	return d, impl{
		budgetStore:    d.BudgetStore,
		labStore:       d.LabStore,
		requestStore:   d.RequestStore,
		equipmentStore: d.EquipmentStore,
		approvalStore:  d.ApprovalStore,
		exporter:       xlsexport.Instance,
	}
}

func TestBudget(t *testing.T) {
	_, h := newHandler()

	list, hMsg, err := h.Budget("lab-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Len(t, list, 1)
	require.Equal(t, "Chemistry", list[0].LabName)
	require.Equal(t, "120.50", list[0].TotalSpent)
	require.Equal(t, 2, list[0].ApprovedCount)

	list, hMsg, err = h.Budget("lab-2")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, "0.00", list[0].TotalSpent)
	require.Equal(t, 0, list[0].ApprovedCount)

	_, hMsg, err = h.Budget("lab-404")
	require.NoError(t, err)
	require.Equal(t, "lab not found", hMsg)

	list, _, err = h.Budget("")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Chemistry", list[0].LabName)
}

func TestOverview(t *testing.T) {
	d, h := newHandler()
	d.Requests["r1"] = dbmodels.Request{BaseModel: dbmodels.BaseModel{ID: "r1"}, Status: models.RequestStatusPending}
	d.Requests["r2"] = dbmodels.Request{BaseModel: dbmodels.BaseModel{ID: "r2"}, Status: models.RequestStatusPending}
	d.Requests["r3"] = dbmodels.Request{BaseModel: dbmodels.BaseModel{ID: "r3"}, Status: models.RequestStatusRejected}
	d.Equipment["e1"] = dbmodels.Equipment{BaseModel: dbmodels.BaseModel{ID: "e1"}, Name: "Gloves", Quantity: 2, LowStockAlert: 5}
	d.Equipment["e2"] = dbmodels.Equipment{BaseModel: dbmodels.BaseModel{ID: "e2"}, Name: "Beaker", Quantity: 50, LowStockAlert: 5}

	view, err := h.Overview()
	require.NoError(t, err)
	require.Equal(t, int64(2), view.RequestsByStatus[models.RequestStatusPending])
	require.Equal(t, int64(1), view.RequestsByStatus[models.RequestStatusRejected])
	require.Len(t, view.LowStock, 1)
	require.Equal(t, "Gloves", view.LowStock[0].Name)
	require.Len(t, view.Budgets, 1)
}

func TestExportExpenses(t *testing.T) {
	d, h := newHandler()
	completed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d.Approvals["ap-1"] = dbmodels.ApprovedRequest{
		BaseModel:   dbmodels.BaseModel{ID: "ap-1"},
		LabID:       "lab-1",
		ApprovedAt:  completed.Add(-time.Hour),
		Status:      models.ApprovalStatusCompleted,
		CompletedAt: &completed,
		EquipmentExpenses: dbmodels.EquipmentExpenses{
			{Name: "Pipette", ApprovedQuantity: 2, UnitPrice: decimal.RequireFromString("1.25"), AmountSpent: decimal.RequireFromString("2.50")},
		},
	}
	d.Approvals["ap-2"] = dbmodels.ApprovedRequest{
		BaseModel:  dbmodels.BaseModel{ID: "ap-2"},
		LabID:      "lab-1",
		ApprovedAt: completed,
		Status:     models.ApprovalStatusApproved,
	}

	buf, hMsg, err := h.ExportExpenses(reportapimodels.ExpensesExportFilter{})
	require.NoError(t, err)
	require.Empty(t, hMsg)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Chemistry", rows[1][0])
	require.Equal(t, "ap-1", rows[1][1])
}

func TestExportExpensesInvalidRange(t *testing.T) {
	_, h := newHandler()
	from := time.Now()
	to := from.Add(-time.Hour)
	_, hMsg, err := h.ExportExpenses(reportapimodels.ExpensesExportFilter{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	require.Equal(t, "date range is invalid", hMsg)
}
