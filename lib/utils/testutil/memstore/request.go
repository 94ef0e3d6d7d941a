package memstore

import (
	approvalstore "labstock-backend/lib/approval/store"
	requeststore "labstock-backend/lib/request/store"
	"labstock-backend/models"
	approvalapimodels "labstock-backend/models/api/approval"
	reportapimodels "labstock-backend/models/api/report"
	requestapimodels "labstock-backend/models/api/request"
	dbmodels "labstock-backend/models/db"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (d *DB) RequestStore(_ *gorm.DB) requeststore.Provider {
	return requestImpl{d: d}
}

func (d *DB) ApprovalStore(_ *gorm.DB) approvalstore.Provider {
	return approvalImpl{d: d}
}

type requestImpl struct {
	d *DB
}

func (i requestImpl) Create(rec dbmodels.Request) (string, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("request.Create"); err != nil {
		return "", err
	}
	rec.BaseModel = newBase(rec.BaseModel)
	i.d.Requests[rec.ID] = rec
	return rec.ID, nil
}

func (i requestImpl) GetByID(id string) (*dbmodels.Request, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec, ok := i.d.Requests[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (i requestImpl) GetByIDForUpdate(id string) (*dbmodels.Request, error) {
	return i.GetByID(id)
}

func (i requestImpl) UpdateStatus(id string, from models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("request.UpdateStatus"); err != nil {
		return false, err
	}
	rec, ok := i.d.Requests[id]
	if !ok || rec.Status != from {
		return false, nil
	}
	for key, value := range updMap {
		switch key {
		case "status":
			rec.Status = value.(models.RequestStatus)
		case "approved_at":
			t := value.(time.Time)
			rec.ApprovedAt = &t
		case "rejected_at":
			t := value.(time.Time)
			rec.RejectedAt = &t
		case "rejection_reason":
			rec.RejectionReason = value.(string)
		default:
			return false, unknownField(key)
		}
	}
	i.d.Requests[id] = rec
	return true, nil
}

func (i requestImpl) filter(filter requestapimodels.RequestFilter) []dbmodels.Request {
	list := sortedValues(i.d.Requests, func(a, b dbmodels.Request) bool { return a.CreatedAt.After(b.CreatedAt) })
	result := []dbmodels.Request{}
	for _, rec := range list {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.LabID != "" && rec.LabID != filter.LabID {
			continue
		}
		result = append(result, rec)
	}
	return result
}

func (i requestImpl) ListCount(filter requestapimodels.RequestFilter) (int64, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	return int64(len(i.filter(filter))), nil
}

func (i requestImpl) List(filter requestapimodels.RequestFilter) ([]dbmodels.Request, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	offset, limit := filter.GetOffset()
	return page(i.filter(filter), offset, limit), nil
}

func (i requestImpl) CountByStatus() (map[models.RequestStatus]int64, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	result := map[models.RequestStatus]int64{}
	for _, rec := range i.d.Requests {
		result[rec.Status]++
	}
	return result, nil
}

type approvalImpl struct {
	d *DB
}

func (i approvalImpl) Create(rec dbmodels.ApprovedRequest) (string, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("approval.Create"); err != nil {
		return "", err
	}
	for _, existing := range i.d.Approvals {
		if existing.RequestID == rec.RequestID {
			return "", errors.New("duplicate key value violates unique constraint")
		}
	}
	rec.BaseModel = newBase(rec.BaseModel)
	rec.Invoices = nil
	i.d.Approvals[rec.ID] = rec
	return rec.ID, nil
}

func (i approvalImpl) withInvoices(rec dbmodels.ApprovedRequest) *dbmodels.ApprovedRequest {
	rec.Invoices = []dbmodels.ApprovalInvoice{}
	for _, invoice := range i.d.Invoices {
		if invoice.ApprovedRequestID == rec.ID {
			rec.Invoices = append(rec.Invoices, invoice)
		}
	}
	return &rec
}

func (i approvalImpl) GetByID(id string) (*dbmodels.ApprovedRequest, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	rec, ok := i.d.Approvals[id]
	if !ok {
		return nil, nil
	}
	return i.withInvoices(rec), nil
}

func (i approvalImpl) GetByIDForUpdate(id string) (*dbmodels.ApprovedRequest, error) {
	return i.GetByID(id)
}

func (i approvalImpl) GetByRequestID(requestID string) (*dbmodels.ApprovedRequest, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	for _, rec := range i.d.Approvals {
		if rec.RequestID == requestID {
			return i.withInvoices(rec), nil
		}
	}
	return nil, nil
}

func (i approvalImpl) Complete(id string, updMap map[string]interface{}) (bool, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("approval.Complete"); err != nil {
		return false, err
	}
	rec, ok := i.d.Approvals[id]
	if !ok || rec.Status.IsCompleted() {
		return false, nil
	}
	for key, value := range updMap {
		switch key {
		case "equipment_expenses":
			rec.EquipmentExpenses = value.(dbmodels.EquipmentExpenses)
		case "status":
			rec.Status = value.(models.ApprovalStatus)
		case "total_amount_spent":
			rec.TotalAmountSpent = value.(decimal.Decimal)
		case "completed_at":
			t := value.(time.Time)
			rec.CompletedAt = &t
		default:
			return false, unknownField(key)
		}
	}
	i.d.Approvals[id] = rec
	return true, nil
}

func (i approvalImpl) AddInvoices(recs []dbmodels.ApprovalInvoice) error {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	if err := i.d.fail("approval.AddInvoices"); err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		i.d.Invoices = append(i.d.Invoices, rec)
	}
	return nil
}

func (i approvalImpl) filter(filter approvalapimodels.ApprovedRequestFilter) []dbmodels.ApprovedRequest {
	list := sortedValues(i.d.Approvals, func(a, b dbmodels.ApprovedRequest) bool { return a.ApprovedAt.After(b.ApprovedAt) })
	result := []dbmodels.ApprovedRequest{}
	for _, rec := range list {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if filter.LabID != "" && rec.LabID != filter.LabID {
			continue
		}
		result = append(result, *i.withInvoices(rec))
	}
	return result
}

func (i approvalImpl) ListCount(filter approvalapimodels.ApprovedRequestFilter) (int64, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	return int64(len(i.filter(filter))), nil
}

func (i approvalImpl) List(filter approvalapimodels.ApprovedRequestFilter) ([]dbmodels.ApprovedRequest, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	offset, limit := filter.GetOffset()
	return page(i.filter(filter), offset, limit), nil
}

func (i approvalImpl) ListCompleted(filter reportapimodels.ExpensesExportFilter) ([]dbmodels.ApprovedRequest, error) {
	i.d.mu.Lock()
	defer i.d.mu.Unlock()
	list := i.filter(approvalapimodels.ApprovedRequestFilter{Status: models.ApprovalStatusCompleted, LabID: filter.LabID})
	result := []dbmodels.ApprovedRequest{}
	for _, rec := range list {
		if filter.DateFrom != nil && rec.CompletedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && rec.CompletedAt.After(*filter.DateTo) {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}
