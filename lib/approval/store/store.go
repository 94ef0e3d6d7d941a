package approvalstore

import (
	"labstock-backend/models"
	approvalapimodels "labstock-backend/models/api/approval"
	reportapimodels "labstock-backend/models/api/report"
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.ApprovedRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.ApprovedRequest, err error)
	// GetByIDForUpdate блокирует строку до конца транзакции
	GetByIDForUpdate(id string) (rec *dbmodels.ApprovedRequest, err error)
	GetByRequestID(requestID string) (rec *dbmodels.ApprovedRequest, err error)
	// Complete закрывает запись, если она еще не закрыта
	Complete(id string, updMap map[string]interface{}) (updated bool, err error)
	AddInvoices(recs []dbmodels.ApprovalInvoice) error
	ListCount(filter approvalapimodels.ApprovedRequestFilter) (rowCount int64, err error)
	List(filter approvalapimodels.ApprovedRequestFilter) (list []dbmodels.ApprovedRequest, err error)
	ListCompleted(filter reportapimodels.ExpensesExportFilter) (list []dbmodels.ApprovedRequest, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovedRequest) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ApprovedRequest, error) {
	return i.get(i.db.Preload("Invoices"), "id = ?", id)
}

func (i impl) GetByIDForUpdate(id string) (*dbmodels.ApprovedRequest, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (i impl) GetByRequestID(requestID string) (*dbmodels.ApprovedRequest, error) {
	return i.get(i.db.Preload("Invoices"), "request_id = ?", requestID)
}

func (i impl) get(tx *gorm.DB, query string, arg string) (*dbmodels.ApprovedRequest, error) {
	rec := dbmodels.ApprovedRequest{}
	err := tx.
		Where(query, arg).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Complete(id string, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.ApprovedRequest{}).
		Where("id = ?", id).
		Where("status <> ?", models.ApprovalStatusCompleted).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) AddInvoices(recs []dbmodels.ApprovalInvoice) error {
	if len(recs) == 0 {
		return nil
	}
	return i.db.Create(&recs).Error
}

func (i impl) ListCount(filter approvalapimodels.ApprovedRequestFilter) (rowCount int64, err error) {
	tx := i.addFilter(i.db.Model(dbmodels.ApprovedRequest{}), filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения общего количества выдач")
	}
	return rowCount, nil
}

func (i impl) List(filter approvalapimodels.ApprovedRequestFilter) (list []dbmodels.ApprovedRequest, err error) {
	list = []dbmodels.ApprovedRequest{}
	tx := i.addFilter(i.db.Model(dbmodels.ApprovedRequest{}), filter)
	offset, limit := filter.GetOffset()
	err = tx.Limit(limit).Offset(offset).
		Order("approved_at desc").
		Preload("Invoices").
		Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListCompleted(filter reportapimodels.ExpensesExportFilter) (list []dbmodels.ApprovedRequest, err error) {
	list = []dbmodels.ApprovedRequest{}
	tx := i.db.
		Model(dbmodels.ApprovedRequest{}).
		Where("status = ?", models.ApprovalStatusCompleted)
	if filter.LabID != "" {
		tx = tx.Where("lab_id = ?", filter.LabID)
	}
	if filter.DateFrom != nil {
		tx = tx.Where("completed_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx = tx.Where("completed_at <= ?", *filter.DateTo)
	}
	err = tx.Order("completed_at").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter approvalapimodels.ApprovedRequestFilter) *gorm.DB {
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.LabID != "" {
		tx = tx.Where("lab_id = ?", filter.LabID)
	}
	return tx
}
