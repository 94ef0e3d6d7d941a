package requesthandler

import (
	"testing"

	"labstock-backend/lib/utils/testutil/memstore"
	"labstock-backend/models"
	requestapimodels "labstock-backend/models/api/request"
	dbmodels "labstock-backend/models/db"

	"github.com/stretchr/testify/require"
)

var labUser = models.Session{UserID: "user-1", Name: "Lab User", Role: models.LabUserRole, LabID: "lab-1"}

func newHandler() (*memstore.DB, impl) {
	d := memstore.New()
	d.Equipment["eq-a"] = dbmodels.Equipment{
		BaseModel: dbmodels.BaseModel{ID: "eq-a"},
		Name:      "Burette",
		Type:      models.EquipmentNonConsumable,
		Quantity:  1,
		ImageUrl:  "http://img/burette.png",
	}
	d.Equipment["eq-b"] = dbmodels.Equipment{
		BaseModel: dbmodels.BaseModel{ID: "eq-b"},
		Name:      "Gloves",
		Type:      models.EquipmentConsumable,
		Quantity:  100,
	}
	return d, impl{
		store:          d.RequestStore,
		equipmentStore: d.EquipmentStore,
	}
}

func TestCreateSnapshotsItems(t *testing.T) {
	d, h := newHandler()

	id, hMsg, err := h.Create(labUser, requestapimodels.RequestCreateData{
		Title:       "  Practical session ",
		Description: "week 3",
		Items: []requestapimodels.RequestItemData{
			{EquipmentID: "eq-a", Quantity: 5},
			{EquipmentID: "eq-b", Quantity: 10},
		},
	})
	require.NoError(t, err)
	require.Empty(t, hMsg)

	rec := d.Requests[id]
	require.Equal(t, models.RequestStatusPending, rec.Status)
	require.Equal(t, "Practical session", rec.Title)
	require.Equal(t, "lab-1", rec.LabID)
	require.Equal(t, "Lab User", rec.Username)
	require.False(t, rec.CreatedAt.IsZero())
	require.Len(t, rec.Equipment, 2)
	require.Equal(t, "Burette", rec.Equipment[0].Name)
	require.Equal(t, models.EquipmentNonConsumable, rec.Equipment[0].Type)
	require.Equal(t, "http://img/burette.png", rec.Equipment[0].Img)

	// stock is not checked or changed at submission
	require.Equal(t, 1, d.Equipment["eq-a"].Quantity)

	renamed := d.Equipment["eq-a"]
	renamed.Name = "Burette 50ml"
	d.Equipment["eq-a"] = renamed
	view, hMsg, err := h.Get(labUser, id)
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, "Burette", view.Equipment[0].Name)
}

func TestCreateValidation(t *testing.T) {
	d, h := newHandler()
	cases := []struct {
		data requestapimodels.RequestCreateData
		hMsg string
	}{
		{requestapimodels.RequestCreateData{Title: "  ", Items: []requestapimodels.RequestItemData{{EquipmentID: "eq-a", Quantity: 1}}}, "title is required"},
		{requestapimodels.RequestCreateData{Title: "Kit"}, "select at least one equipment item"},
		{requestapimodels.RequestCreateData{Title: "Kit", Items: []requestapimodels.RequestItemData{{EquipmentID: "eq-a", Quantity: 0}}}, "requested quantity must be greater than zero"},
		{requestapimodels.RequestCreateData{Title: "Kit", Items: []requestapimodels.RequestItemData{{EquipmentID: "eq-a", Quantity: 1}, {EquipmentID: "eq-a", Quantity: 2}}}, "equipment is listed more than once"},
		{requestapimodels.RequestCreateData{Title: "Kit", Items: []requestapimodels.RequestItemData{{EquipmentID: "eq-x", Quantity: 1}}}, "selected equipment no longer exists"},
	}
	for _, tc := range cases {
		_, hMsg, err := h.Create(labUser, tc.data)
		require.NoError(t, err)
		require.Equal(t, tc.hMsg, hMsg)
	}
	require.Empty(t, d.Requests)
}

func TestCreateWithoutLabRefused(t *testing.T) {
	_, h := newHandler()
	session := labUser
	session.LabID = ""
	_, hMsg, err := h.Create(session, requestapimodels.RequestCreateData{Title: "Kit", Items: []requestapimodels.RequestItemData{{EquipmentID: "eq-a", Quantity: 1}}})
	require.NoError(t, err)
	require.Equal(t, "user is not assigned to a lab", hMsg)
}

func TestLabUserSeesOwnLabOnly(t *testing.T) {
	d, h := newHandler()
	ownID, _, err := h.Create(labUser, requestapimodels.RequestCreateData{Title: "Own", Items: []requestapimodels.RequestItemData{{EquipmentID: "eq-a", Quantity: 1}}})
	require.NoError(t, err)
	other := models.Session{UserID: "user-2", Name: "Other", Role: models.LabUserRole, LabID: "lab-2"}
	otherID, _, err := h.Create(other, requestapimodels.RequestCreateData{Title: "Other", Items: []requestapimodels.RequestItemData{{EquipmentID: "eq-b", Quantity: 1}}})
	require.NoError(t, err)
	require.Len(t, d.Requests, 2)

	list, rowCount, err := h.List(labUser, requestapimodels.RequestFilter{LabID: "lab-2"})
	require.NoError(t, err)
	require.Equal(t, int64(1), rowCount)
	require.Equal(t, ownID, list[0].ID)

	_, hMsg, err := h.Get(labUser, otherID)
	require.NoError(t, err)
	require.Equal(t, "request not found", hMsg)

	manager := models.Session{UserID: "m", Role: models.StockManagerRole}
	_, rowCount, err = h.List(manager, requestapimodels.RequestFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(2), rowCount)
}
