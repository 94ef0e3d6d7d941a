package dbmodels

import (
	"labstock-backend/models"
	"time"
)

type Equipment struct {
	BaseModel
	Name          string               `gorm:"type:varchar(255);index"`
	Type          models.EquipmentType `gorm:"type:varchar(30)"`
	Quantity      int                  `gorm:"check:quantity >= 0"`
	LowStockAlert int
	ImageUrl      string
	History       []EquipmentHistory `gorm:"foreignKey:EquipmentID"`
}

func (e Equipment) IsLowStock() bool {
	return e.Quantity <= e.LowStockAlert
}

// EquipmentHistory журнал изменений остатка, записи только добавляются
type EquipmentHistory struct {
	BaseModel
	EquipmentID      string `gorm:"type:varchar(36);index"`
	Date             time.Time
	PreviousQuantity int
	NewQuantity      int
	Notes            string
	UpdatedBy        string `gorm:"type:varchar(255)"`
}
