package pdfexport

import (
	"bytes"
	"testing"
	"time"

	"labstock-backend/models"
	dbmodels "labstock-backend/models/db"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestGenerateApprovalReport(t *testing.T) {
	completed := time.Now()
	data := ApprovalReportData{
		Approval: dbmodels.ApprovedRequest{
			BaseModel:  dbmodels.BaseModel{ID: "ap-1"},
			ApprovedAt: completed.Add(-time.Hour),
			Status:     models.ApprovalStatusCompleted,
			Equipment: dbmodels.ApprovedItems{
				{EquipmentID: "eq-1", Name: "Pipette", RequestedQuantity: 3, ApprovedQuantity: 2},
			},
			EquipmentExpenses: dbmodels.EquipmentExpenses{
				{Name: "Pipette", ApprovedQuantity: 2, UnitPrice: decimal.RequireFromString("5"), AmountSpent: decimal.RequireFromString("10")},
			},
			Invoices: []dbmodels.ApprovalInvoice{
				{ImageUrl: "http://s3/labstock/invoices/a.jpg", ItemIndexes: pq.Int64Array{0}},
			},
			TotalAmountSpent: decimal.RequireFromString("10"),
			CompletedAt:      &completed,
		},
		RequestTitle: "Titration kit",
		RequestedBy:  "Ann",
		LabName:      "Chemistry",
	}
	file, err := GenerateApprovalReport(data)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(file, []byte("%PDF-")))
}
