package equipmentapimodels

import (
	"labstock-backend/models"
	apimodels "labstock-backend/models/api"
	dbmodels "labstock-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type EquipmentData struct {
	Name          string               `json:"name"`
	Type          models.EquipmentType `json:"type"`
	Quantity      int                  `json:"quantity"`
	LowStockAlert int                  `json:"lowStockAlert"`
	ImageUrl      string               `json:"imageUrl"`
}

func (e EquipmentData) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("equipment name is required")
	}
	if !e.Type.IsValid() {
		return errors.Errorf("equipment type must be %q or %q", models.EquipmentConsumable, models.EquipmentNonConsumable)
	}
	if e.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	if e.LowStockAlert < 0 {
		return errors.New("low stock alert cannot be negative")
	}
	return nil
}

type EquipmentView struct {
	EquipmentData
	ID         string    `json:"id"`
	IsLowStock bool      `json:"isLowStock"`
	UpdatedAt  time.Time `json:"lastUpdated"`
}

func EquipmentConvert(rec dbmodels.Equipment) EquipmentView {
	return EquipmentView{
		EquipmentData: EquipmentData{
			Name:          rec.Name,
			Type:          rec.Type,
			Quantity:      rec.Quantity,
			LowStockAlert: rec.LowStockAlert,
			ImageUrl:      rec.ImageUrl,
		},
		ID:         rec.ID,
		IsLowStock: rec.IsLowStock(),
		UpdatedAt:  rec.UpdatedAt,
	}
}

// QuantityUpdate ручная корректировка остатка
type QuantityUpdate struct {
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

func (q QuantityUpdate) Validate() error {
	if q.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	return nil
}

type HistoryView struct {
	Date             time.Time `json:"date"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	Notes            string    `json:"notes"`
	UpdatedBy        string    `json:"updatedBy"`
}

func HistoryConvert(rec dbmodels.EquipmentHistory) HistoryView {
	return HistoryView{
		Date:             rec.Date,
		PreviousQuantity: rec.PreviousQuantity,
		NewQuantity:      rec.NewQuantity,
		Notes:            rec.Notes,
		UpdatedBy:        rec.UpdatedBy,
	}
}

type EquipmentFilter struct {
	apimodels.Pagination
	Search       string               `json:"search"`
	Type         models.EquipmentType `json:"type"`
	LowStockOnly bool                 `json:"lowStockOnly"`
}
