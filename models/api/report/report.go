package reportapimodels

import (
	"labstock-backend/models"
	dbmodels "labstock-backend/models/db"
	"time"
)

type BudgetView struct {
	LabID                  string    `json:"labId"`
	LabName                string    `json:"labName,omitempty"`
	TotalSpent             string    `json:"totalSpent"`
	ApprovedCount          int       `json:"approvedCount"`
	PartiallyApprovedCount int       `json:"partiallyApprovedCount"`
	RejectedCount          int       `json:"rejectedCount"`
	CompletedCount         int       `json:"completedCount"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func BudgetConvert(rec dbmodels.LabBudget) BudgetView {
	return BudgetView{
		LabID:                  rec.LabID,
		TotalSpent:             rec.TotalSpent.StringFixed(2),
		ApprovedCount:          rec.ApprovedCount,
		PartiallyApprovedCount: rec.PartiallyApprovedCount,
		RejectedCount:          rec.RejectedCount,
		CompletedCount:         rec.CompletedCount,
		UpdatedAt:              rec.UpdatedAt,
	}
}

type LowStockItem struct {
	EquipmentID   string `json:"equipmentId"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	LowStockAlert int    `json:"lowStockAlert"`
}

type OverviewView struct {
	RequestsByStatus map[models.RequestStatus]int64 `json:"requestsByStatus"`
	LowStock         []LowStockItem                 `json:"lowStock"`
	Budgets          []BudgetView                   `json:"budgets"`
}

type ExpensesExportFilter struct {
	LabID    string     `json:"labId"`
	DateFrom *time.Time `json:"dateFrom"`
	DateTo   *time.Time `json:"dateTo"`
}
