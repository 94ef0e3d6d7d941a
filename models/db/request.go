package dbmodels

import (
	"database/sql/driver"
	"labstock-backend/models"
	"time"
)

type Request struct {
	BaseModel
	UserID          string `gorm:"type:varchar(36);index"`
	Username        string `gorm:"type:varchar(255)"`
	LabID           string `gorm:"type:varchar(36);index"`
	Title           string `gorm:"type:varchar(255)"`
	Description     string
	Equipment       RequestItems         `gorm:"type:jsonb"`
	Status          models.RequestStatus `gorm:"type:varchar(30);index"`
	ApprovedAt      *time.Time
	RejectionReason string
	RejectedAt      *time.Time
}

// RequestItem снимок оборудования на момент подачи заявки
type RequestItem struct {
	EquipmentID string               `json:"equipmentId"`
	Name        string               `json:"name"`
	Quantity    int                  `json:"quantity"`
	Type        models.EquipmentType `json:"type"`
	Img         string               `json:"img"`
}

type RequestItems []RequestItem

func (r RequestItems) Value() (driver.Value, error) {
	if r == nil {
		r = RequestItems{}
	}
	return jsonValue(r)
}

func (r *RequestItems) Scan(value any) error {
	return jsonScan(value, r)
}
