package dbmodels

import (
	"time"

	"github.com/shopspring/decimal"
)

// LabBudget агрегаты по лаборатории, обновляются в той же транзакции, что и решение
type LabBudget struct {
	LabID                  string          `gorm:"type:varchar(36);primaryKey"`
	TotalSpent             decimal.Decimal `gorm:"type:numeric(20,2);default:0"`
	ApprovedCount          int
	PartiallyApprovedCount int
	RejectedCount          int
	CompletedCount         int
	UpdatedAt              time.Time
}
