package usershandler

import (
	"context"
	"testing"

	"labstock-backend/lib/utils/testutil/memstore"
	"labstock-backend/models"
	apimodels "labstock-backend/models/api"
	userapimodels "labstock-backend/models/api/user"
	dbmodels "labstock-backend/models/db"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var admin = models.Session{UserID: "admin-1", Name: "Admin", Role: models.AdminRole}

func newHandler() (*memstore.DB, *memstore.Media, impl) {
	d := memstore.New()
	d.Labs["lab-1"] = dbmodels.Lab{BaseModel: dbmodels.BaseModel{ID: "lab-1"}, LabName: "Chemistry"}
	m := memstore.NewMedia()
	return d, m, impl{store: d.UsersStore, labStore: d.LabStore, media: m}
}

func invite(email string) userapimodels.UserCreateData {
	return userapimodels.UserCreateData{
		UserData: userapimodels.UserData{
			Role:     models.LabUserRole,
			Personal: userapimodels.PersonalData{Name: "Lab User", Email: email},
			LabID:    "lab-1",
		},
		Password: "s3cret-pass",
	}
}

func TestCreateHashesPassword(t *testing.T) {
	d, _, h := newHandler()

	id, hMsg, err := h.Create(admin, invite("Lab.User@Example.com"))
	require.NoError(t, err)
	require.Empty(t, hMsg)

	rec := d.Users[id]
	require.Equal(t, "lab.user@example.com", rec.Personal.Email)
	require.NotEqual(t, "s3cret-pass", rec.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte("s3cret-pass")))
	require.Equal(t, "lab-1", rec.GetLabID())

	view, hMsg, err := h.Get(id)
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, "Chemistry", view.LabName)
}

func TestCreateValidation(t *testing.T) {
	d, _, h := newHandler()

	data := invite("user@example.com")
	data.Password = "short"
	_, hMsg, err := h.Create(admin, data)
	require.NoError(t, err)
	require.Equal(t, "password must be at least 8 characters", hMsg)

	data = invite("user@example.com")
	data.LabID = ""
	_, hMsg, err = h.Create(admin, data)
	require.NoError(t, err)
	require.Equal(t, "lab is required for lab users", hMsg)

	data = invite("user@example.com")
	data.LabID = "lab-404"
	_, hMsg, err = h.Create(admin, data)
	require.NoError(t, err)
	require.Equal(t, "lab not found", hMsg)
	require.Empty(t, d.Users)

	_, hMsg, err = h.Create(admin, invite("user@example.com"))
	require.NoError(t, err)
	require.Empty(t, hMsg)
	_, hMsg, err = h.Create(admin, invite("USER@example.com"))
	require.NoError(t, err)
	require.Equal(t, msgEmailTaken, hMsg)
}

func TestUpdateAndDelete(t *testing.T) {
	d, _, h := newHandler()
	id, _, err := h.Create(admin, invite("user@example.com"))
	require.NoError(t, err)

	hMsg, err := h.Update(admin, id, userapimodels.UserData{
		Role:     models.StockManagerRole,
		Personal: userapimodels.PersonalData{Name: "Store Keeper", Email: "keeper@example.com"},
	})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	rec := d.Users[id]
	require.Equal(t, models.StockManagerRole, rec.Role)
	require.Equal(t, "keeper@example.com", rec.Personal.Email)
	require.Nil(t, rec.LabID)

	list, rowCount, err := h.List(userapimodels.UserFilter{Role: models.StockManagerRole})
	require.NoError(t, err)
	require.Equal(t, int64(1), rowCount)
	require.Equal(t, "Store Keeper", list[0].Personal.Name)

	hMsg, err = h.Delete(models.Session{UserID: id, Role: models.AdminRole}, id)
	require.NoError(t, err)
	require.Equal(t, "you cannot delete yourself", hMsg)

	hMsg, err = h.Delete(admin, id)
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Empty(t, d.Users)
}

func TestProfile(t *testing.T) {
	d, m, h := newHandler()
	id, _, err := h.Create(admin, invite("user@example.com"))
	require.NoError(t, err)
	session := models.Session{UserID: id, Role: models.LabUserRole, LabID: "lab-1"}

	hMsg, err := h.UpdateMe(session, userapimodels.ProfileData{
		Personal:     userapimodels.PersonalData{Name: "Renamed", Phone: "+100", Email: "ignored@example.com"},
		Professional: userapimodels.ProfessionalData{Designation: "Technician"},
	})
	require.NoError(t, err)
	require.Empty(t, hMsg)

	me, hMsg, err := h.Me(session)
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, "Renamed", me.Personal.Name)
	require.Equal(t, "user@example.com", me.Personal.Email)
	require.Equal(t, "Technician", me.Professional.Designation)

	url, hMsg, err := h.UploadProfileImage(context.Background(), session, apimodels.FileData{FileName: "me.jpg", ContentType: "image/jpeg", Body: []byte("jpg")})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, url, d.Users[id].Personal.ProfileImgUrl)
	require.Len(t, m.Objects, 1)
}
