package requestapimodels

import (
	"labstock-backend/models"
	apimodels "labstock-backend/models/api"
	dbmodels "labstock-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type RequestItemData struct {
	EquipmentID string `json:"equipmentId"`
	Quantity    int    `json:"quantity"`
}

type RequestCreateData struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Items       []RequestItemData `json:"equipment"`
}

func (r RequestCreateData) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if len(r.Items) == 0 {
		return errors.New("select at least one equipment item")
	}
	seen := map[string]bool{}
	for _, item := range r.Items {
		if item.EquipmentID == "" {
			return errors.New("equipment id is required")
		}
		if item.Quantity <= 0 {
			return errors.New("requested quantity must be greater than zero")
		}
		if seen[item.EquipmentID] {
			return errors.New("equipment is listed more than once")
		}
		seen[item.EquipmentID] = true
	}
	return nil
}

type RequestItemView struct {
	EquipmentID string               `json:"equipmentId"`
	Name        string               `json:"name"`
	Quantity    int                  `json:"quantity"`
	Type        models.EquipmentType `json:"type"`
	Img         string               `json:"img"`
}

type RequestView struct {
	ID              string               `json:"id"`
	UserID          string               `json:"userId"`
	Username        string               `json:"username"`
	LabID           string               `json:"labId"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Equipment       []RequestItemView    `json:"equipment"`
	Status          models.RequestStatus `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	ApprovedAt      *time.Time           `json:"approvedAt,omitempty"`
	RejectionReason string               `json:"rejectionReason,omitempty"`
	RejectedAt      *time.Time           `json:"rejectedAt,omitempty"`
}

func RequestConvert(rec dbmodels.Request) RequestView {
	items := make([]RequestItemView, 0, len(rec.Equipment))
	for _, item := range rec.Equipment {
		items = append(items, RequestItemView{
			EquipmentID: item.EquipmentID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			Type:        item.Type,
			Img:         item.Img,
		})
	}
	return RequestView{
		ID:              rec.ID,
		UserID:          rec.UserID,
		Username:        rec.Username,
		LabID:           rec.LabID,
		Title:           rec.Title,
		Description:     rec.Description,
		Equipment:       items,
		Status:          rec.Status,
		CreatedAt:       rec.CreatedAt,
		ApprovedAt:      rec.ApprovedAt,
		RejectionReason: rec.RejectionReason,
		RejectedAt:      rec.RejectedAt,
	}
}

type RequestFilter struct {
	apimodels.Pagination
	Status models.RequestStatus `json:"status"`
	LabID  string               `json:"labId"`
}
