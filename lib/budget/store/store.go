package budgetstore

import (
	"labstock-backend/models"
	dbmodels "labstock-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Get(labID string) (rec *dbmodels.LabBudget, err error)
	List() (list []dbmodels.LabBudget, err error)
	// AddDecision увеличивает счетчик решений по лаборатории
	AddDecision(labID string, status models.RequestStatus) error
	// AddCompletion добавляет расходы закрытой выдачи
	AddCompletion(labID string, amount decimal.Decimal) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

var decisionColumn = map[models.RequestStatus]string{
	models.RequestStatusApproved:          "approved_count",
	models.RequestStatusPartiallyApproved: "partially_approved_count",
	models.RequestStatusRejected:          "rejected_count",
}

func (i impl) Get(labID string) (*dbmodels.LabBudget, error) {
	rec := dbmodels.LabBudget{}
	err := i.db.
		Where("lab_id = ?", labID).
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

func (i impl) List() (list []dbmodels.LabBudget, err error) {
	list = []dbmodels.LabBudget{}
	err = i.db.Order("lab_id").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) AddDecision(labID string, status models.RequestStatus) error {
	column, ok := decisionColumn[status]
	if !ok {
		return errors.Errorf("неизвестный статус решения: %v", status)
	}
	rec := dbmodels.LabBudget{
		LabID:     labID,
		UpdatedAt: time.Now(),
	}
	switch status {
	case models.RequestStatusApproved:
		rec.ApprovedCount = 1
	case models.RequestStatusPartiallyApproved:
		rec.PartiallyApprovedCount = 1
	case models.RequestStatusRejected:
		rec.RejectedCount = 1
	}
	return i.upsert(rec, map[string]interface{}{
		column:       gorm.Expr("lab_budgets."+column+" + 1"),
		"updated_at": rec.UpdatedAt,
	})
}

func (i impl) AddCompletion(labID string, amount decimal.Decimal) error {
	rec := dbmodels.LabBudget{
		LabID:          labID,
		TotalSpent:     amount,
		CompletedCount: 1,
		UpdatedAt:      time.Now(),
	}
	return i.upsert(rec, map[string]interface{}{
		"total_spent":     gorm.Expr("lab_budgets.total_spent + ?", amount),
		"completed_count": gorm.Expr("lab_budgets.completed_count + 1"),
		"updated_at":      rec.UpdatedAt,
	})
}

func (i impl) upsert(rec dbmodels.LabBudget, updMap map[string]interface{}) error {
	err := i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lab_id"}},
			DoUpdates: clause.Assignments(updMap),
		}).
		Create(&rec).
		Error
	if err != nil {
		return errors.Wrap(err, "ошибка обновления бюджета лаборатории")
	}
	return nil
}
