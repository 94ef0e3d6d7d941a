package approvalapimodels

import (
	"labstock-backend/models"
	apimodels "labstock-backend/models/api"
	dbmodels "labstock-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ReviewItem позиция заявки вместе с текущим остатком
type ReviewItem struct {
	EquipmentID       string `json:"equipmentId"`
	Name              string `json:"name"`
	RequestedQuantity int    `json:"requestedQuantity"`
	OnHandQuantity    int    `json:"onHandQuantity"`
	MaxApprovable     int    `json:"maxApprovable"`
	DefaultApproved   int    `json:"defaultApproved"`
	EquipmentMissing  bool   `json:"equipmentMissing,omitempty"`
}

// ReviewView для заявки с решением Items содержит утвержденные количества, правка недоступна
type ReviewView struct {
	RequestID       string               `json:"requestId"`
	Title           string               `json:"title"`
	Username        string               `json:"username"`
	Status          models.RequestStatus `json:"status"`
	Items           []ReviewItem         `json:"items"`
	ApprovalID      string               `json:"approvalId,omitempty"`
	RejectionReason string               `json:"rejectionReason,omitempty"`
	ReadOnly        bool                 `json:"readOnly"`
}

type ApproveItemData struct {
	EquipmentID      string `json:"equipmentId"`
	ApprovedQuantity int    `json:"approvedQuantity"`
}

type ApproveData struct {
	Items []ApproveItemData `json:"items"`
}

func (a ApproveData) Validate() error {
	seen := map[string]bool{}
	for _, item := range a.Items {
		if item.EquipmentID == "" {
			return errors.New("equipment id is required")
		}
		if item.ApprovedQuantity < 0 {
			return errors.New("approved quantity cannot be negative")
		}
		if seen[item.EquipmentID] {
			return errors.New("equipment is listed more than once")
		}
		seen[item.EquipmentID] = true
	}
	return nil
}

type RejectData struct {
	Reason string `json:"reason"`
}

func (r RejectData) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return errors.New("rejection reason is required")
	}
	return nil
}

type ExpenseData struct {
	Index       int    `json:"index"`
	AmountSpent string `json:"amountSpent"`
	UnitPrice   string `json:"unitPrice"`
}

type InvoiceData struct {
	ItemIndexes []int `json:"itemIndexes"`
}

// CompleteData данные сверки; файлы счетов приходят отдельно в том же порядке, что и Invoices
type CompleteData struct {
	Expenses []ExpenseData `json:"expenses"`
	Invoices []InvoiceData `json:"invoices"`
}

type InvoiceFile = apimodels.FileData

type ApprovedItemView struct {
	EquipmentID       string `json:"equipmentId"`
	Name              string `json:"name"`
	RequestedQuantity int    `json:"requestedQuantity"`
	ApprovedQuantity  int    `json:"approvedQuantity"`
}

type ExpenseView struct {
	Name             string `json:"name"`
	ApprovedQuantity int    `json:"approvedQuantity"`
	UnitPrice        string `json:"unitPrice"`
	AmountSpent      string `json:"amountSpent"`
}

type InvoiceView struct {
	ImageUrl    string  `json:"imageUrl"`
	ItemIndexes []int64 `json:"itemIndexes"`
}

type ApprovedRequestView struct {
	ID                string                `json:"id"`
	RequestID         string                `json:"requestId"`
	LabID             string                `json:"labId"`
	ApprovedBy        string                `json:"approvedBy"`
	ApprovedAt        time.Time             `json:"approvedAt"`
	Equipment         []ApprovedItemView    `json:"equipment"`
	Status            models.ApprovalStatus `json:"status"`
	EquipmentExpenses []ExpenseView         `json:"equipmentExpenses"`
	Invoices          []InvoiceView         `json:"invoices"`
	TotalAmountSpent  string                `json:"totalAmountSpent"`
	CompletedAt       *time.Time            `json:"completedAt,omitempty"`
	ReadOnly          bool                  `json:"readOnly"`
}

func ApprovedRequestConvert(rec dbmodels.ApprovedRequest) ApprovedRequestView {
	items := make([]ApprovedItemView, 0, len(rec.Equipment))
	for _, item := range rec.Equipment {
		items = append(items, ApprovedItemView{
			EquipmentID:       item.EquipmentID,
			Name:              item.Name,
			RequestedQuantity: item.RequestedQuantity,
			ApprovedQuantity:  item.ApprovedQuantity,
		})
	}
	expenses := make([]ExpenseView, 0, len(rec.EquipmentExpenses))
	for _, expense := range rec.EquipmentExpenses {
		expenses = append(expenses, ExpenseView{
			Name:             expense.Name,
			ApprovedQuantity: expense.ApprovedQuantity,
			UnitPrice:        expense.UnitPrice.StringFixed(2),
			AmountSpent:      expense.AmountSpent.StringFixed(2),
		})
	}
	invoices := make([]InvoiceView, 0, len(rec.Invoices))
	for _, invoice := range rec.Invoices {
		invoices = append(invoices, InvoiceView{
			ImageUrl:    invoice.ImageUrl,
			ItemIndexes: invoice.ItemIndexes,
		})
	}
	return ApprovedRequestView{
		ID:                rec.ID,
		RequestID:         rec.RequestID,
		LabID:             rec.LabID,
		ApprovedBy:        rec.ApprovedBy,
		ApprovedAt:        rec.ApprovedAt,
		Equipment:         items,
		Status:            rec.Status,
		EquipmentExpenses: expenses,
		Invoices:          invoices,
		TotalAmountSpent:  rec.TotalAmountSpent.StringFixed(2),
		CompletedAt:       rec.CompletedAt,
		ReadOnly:          rec.Status.IsCompleted(),
	}
}

type ApprovedRequestFilter struct {
	apimodels.Pagination
	Status models.ApprovalStatus `json:"status"`
	LabID  string                `json:"labId"`
}
