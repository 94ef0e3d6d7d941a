package equipmenthistorystore

import (
	dbmodels "labstock-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.EquipmentHistory) (id string, err error)
	List(equipmentID string) (list []dbmodels.EquipmentHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.EquipmentHistory) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(equipmentID string) (list []dbmodels.EquipmentHistory, err error) {
	list = []dbmodels.EquipmentHistory{}
	err = i.db.
		Where("equipment_id = ?", equipmentID).
		Order("date desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
