package dbmodels

import (
	"database/sql/driver"
	"labstock-backend/models"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type ApprovedRequest struct {
	BaseModel
	RequestID         string `gorm:"type:varchar(36);uniqueIndex"`
	LabID             string `gorm:"type:varchar(36);index"`
	ApprovedBy        string `gorm:"type:varchar(36)"`
	ApprovedAt        time.Time
	Equipment         ApprovedItems         `gorm:"type:jsonb"`
	Status            models.ApprovalStatus `gorm:"type:varchar(30);index"`
	EquipmentExpenses EquipmentExpenses     `gorm:"type:jsonb"`
	Invoices          []ApprovalInvoice     `gorm:"foreignKey:ApprovedRequestID"`
	TotalAmountSpent  decimal.Decimal       `gorm:"type:numeric(20,2);default:0"`
	CompletedAt       *time.Time
}

type ApprovedItem struct {
	EquipmentID       string `json:"equipmentId"`
	Name              string `json:"name"`
	RequestedQuantity int    `json:"requestedQuantity"`
	ApprovedQuantity  int    `json:"approvedQuantity"`
}

type ApprovedItems []ApprovedItem

func (a ApprovedItems) Value() (driver.Value, error) {
	if a == nil {
		a = ApprovedItems{}
	}
	return jsonValue(a)
}

func (a *ApprovedItems) Scan(value any) error {
	return jsonScan(value, a)
}

type EquipmentExpense struct {
	Name             string          `json:"name"`
	ApprovedQuantity int             `json:"approvedQuantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	AmountSpent      decimal.Decimal `json:"amountSpent"`
}

type EquipmentExpenses []EquipmentExpense

func (e EquipmentExpenses) Value() (driver.Value, error) {
	if e == nil {
		e = EquipmentExpenses{}
	}
	return jsonValue(e)
}

func (e *EquipmentExpenses) Scan(value any) error {
	return jsonScan(value, e)
}

// ApprovalInvoice фото счета и индексы позиций, которые он покрывает
type ApprovalInvoice struct {
	BaseModel
	ApprovedRequestID string        `gorm:"type:varchar(36);index"`
	ImageUrl          string
	ItemIndexes       pq.Int64Array `gorm:"type:integer[]"`
}
