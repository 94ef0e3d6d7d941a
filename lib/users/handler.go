package usershandler

import (
	"bytes"
	"context"
	"fmt"
	"labstock-backend/db"
	labstore "labstock-backend/lib/lab/store"
	"labstock-backend/lib/media"
	usersstore "labstock-backend/lib/users/store"
	"labstock-backend/lib/utils/helpers"
	initchecker "labstock-backend/lib/utils/init-checker"
	"labstock-backend/models"
	apimodels "labstock-backend/models/api"
	userapimodels "labstock-backend/models/api/user"
	dbmodels "labstock-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Provider interface {
	// Create приглашение пользователя администратором с начальным паролем
	Create(session models.Session, data userapimodels.UserCreateData) (id, hMsg string, err error)
	Update(session models.Session, id string, data userapimodels.UserData) (hMsg string, err error)
	Get(id string) (item userapimodels.UserView, hMsg string, err error)
	List(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error)
	Delete(session models.Session, id string) (hMsg string, err error)
	Me(session models.Session) (item userapimodels.UserView, hMsg string, err error)
	UpdateMe(session models.Session, data userapimodels.ProfileData) (hMsg string, err error)
	UploadProfileImage(ctx context.Context, session models.Session, file apimodels.FileData) (url, hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, media.Instance)
}

func NewInstance(DB *gorm.DB, mediaProvider media.Provider) Provider {
	instance := impl{
		db:       DB,
		store:    usersstore.NewInstance,
		labStore: labstore.NewInstance,
		media:    mediaProvider,
	}
	initchecker.CheckInit("media", instance.media)
	return instance
}

type impl struct {
	db       *gorm.DB
	store    func(tx *gorm.DB) usersstore.Provider
	labStore func(tx *gorm.DB) labstore.Provider
	media    media.Provider
}

const (
	msgUserNotFound = "user not found"
	msgEmailTaken   = "user with this email already exists"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "ошибка хеширования пароля")
	}
	return string(hash), nil
}

func (i impl) Create(session models.Session, data userapimodels.UserCreateData) (id, hMsg string, err error) {
	logger := log.
		WithField("user_id", session.UserID).
		WithField("email", data.Personal.Email)
	err = data.Validate()
	if err != nil {
		return "", err.Error(), nil
	}
	labID, hMsg, err := i.checkLab(data.LabID)
	if err != nil || hMsg != "" {
		return "", hMsg, err
	}
	store := i.store(i.db)
	existing, err := store.FindByEmail(data.Personal.Email)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка поиска пользователя по почте")
	}
	if existing != nil {
		return "", msgEmailTaken, nil
	}
	passwordHash, err := HashPassword(data.Password)
	if err != nil {
		return "", "", err
	}
	rec := dbmodels.User{
		Role:         data.Role,
		PasswordHash: passwordHash,
		Personal: dbmodels.PersonalInfo{
			Name:          strings.TrimSpace(data.Personal.Name),
			Email:         data.Personal.Email,
			Phone:         strings.TrimSpace(data.Personal.Phone),
			Dob:           data.Personal.Dob,
			ProfileImgUrl: data.Personal.ProfileImgUrl,
		},
		Professional: dbmodels.ProfessionalInfo{
			Department:  strings.TrimSpace(data.Professional.Department),
			Designation: strings.TrimSpace(data.Professional.Designation),
			EmpID:       strings.TrimSpace(data.Professional.EmpID),
		},
		LabID: labID,
	}
	id, err = store.Create(rec)
	if err != nil {
		if isUniqueViolation(err) {
			return "", msgEmailTaken, nil
		}
		return "", "", errors.Wrap(err, "ошибка создания пользователя")
	}
	logger.
		WithField("new_user_id", id).
		WithField("role", data.Role).
		Info("пользователь приглашен")
	return id, "", nil
}

func (i impl) Update(session models.Session, id string, data userapimodels.UserData) (hMsg string, err error) {
	err = data.Validate()
	if err != nil {
		return err.Error(), nil
	}
	store := i.store(i.db)
	rec, err := store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return msgUserNotFound, nil
	}
	if id == session.UserID && data.Role != rec.Role {
		return "you cannot change your own role", nil
	}
	labID, hMsg, err := i.checkLab(data.LabID)
	if err != nil || hMsg != "" {
		return hMsg, err
	}
	email := strings.ToLower(strings.TrimSpace(data.Personal.Email))
	if email != rec.Personal.Email {
		existing, err := store.FindByEmail(email)
		if err != nil {
			return "", errors.Wrap(err, "ошибка поиска пользователя по почте")
		}
		if existing != nil {
			return msgEmailTaken, nil
		}
	}
	updMap := profileUpdMap(data.Personal, data.Professional)
	updMap["personal_email"] = email
	updMap["role"] = data.Role
	updMap["lab_id"] = labID
	err = store.Update(id, updMap)
	if err != nil {
		if isUniqueViolation(err) {
			return msgEmailTaken, nil
		}
		return "", errors.Wrap(err, "ошибка обновления пользователя")
	}
	log.
		WithField("user_id", session.UserID).
		WithField("updated_user_id", id).
		Info("пользователь обновлен")
	return "", nil
}

func (i impl) Get(id string) (item userapimodels.UserView, hMsg string, err error) {
	rec, err := i.store(i.db).GetByID(id)
	if err != nil {
		return item, "", errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return item, msgUserNotFound, nil
	}
	return userapimodels.UserConvert(*rec), "", nil
}

func (i impl) List(filter userapimodels.UserFilter) (list []userapimodels.UserView, rowCount int64, err error) {
	store := i.store(i.db)
	rowCount, err = store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	recList, err := store.List(filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка пользователей")
	}
	list = make([]userapimodels.UserView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, userapimodels.UserConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) Delete(session models.Session, id string) (hMsg string, err error) {
	if id == session.UserID {
		return "you cannot delete yourself", nil
	}
	store := i.store(i.db)
	rec, err := store.GetByID(id)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return msgUserNotFound, nil
	}
	err = store.Delete(id)
	if err != nil {
		return "", errors.Wrap(err, "ошибка удаления пользователя")
	}
	log.
		WithField("user_id", session.UserID).
		WithField("deleted_user_id", id).
		Info("пользователь удален")
	return "", nil
}

func (i impl) Me(session models.Session) (item userapimodels.UserView, hMsg string, err error) {
	return i.Get(session.UserID)
}

func (i impl) UpdateMe(session models.Session, data userapimodels.ProfileData) (hMsg string, err error) {
	store := i.store(i.db)
	rec, err := store.GetByID(session.UserID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return msgUserNotFound, nil
	}
	// почта используется для входа, меняет ее только администратор
	err = store.Update(session.UserID, profileUpdMap(data.Personal, data.Professional))
	if err != nil {
		return "", errors.Wrap(err, "ошибка обновления профиля")
	}
	return "", nil
}

func (i impl) UploadProfileImage(ctx context.Context, session models.Session, file apimodels.FileData) (url, hMsg string, err error) {
	if len(file.Body) == 0 {
		return "", "image file is empty", nil
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return "", fmt.Sprintf("file %q is not an image", file.FileName), nil
	}
	store := i.store(i.db)
	rec, err := store.GetByID(session.UserID)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return "", msgUserNotFound, nil
	}
	url, err = i.media.Upload(ctx, media.ProfileFolder, file.FileName, file.ContentType, bytes.NewReader(file.Body), int64(len(file.Body)))
	if err != nil {
		return "", "", err
	}
	err = store.Update(session.UserID, map[string]interface{}{"personal_profile_img_url": url})
	if err != nil {
		if delErr := i.media.Delete(ctx, url); delErr != nil {
			log.WithError(delErr).Warn("не удалось удалить загруженное фото профиля")
		}
		return "", "", errors.Wrap(err, "ошибка сохранения фото профиля")
	}
	if rec.Personal.ProfileImgUrl != "" {
		if delErr := i.media.Delete(ctx, rec.Personal.ProfileImgUrl); delErr != nil {
			log.WithError(delErr).WithField("user_id", session.UserID).Warn("не удалось удалить предыдущее фото профиля")
		}
	}
	return url, "", nil
}

// checkLab лаборатория необязательна для администратора и завсклада, но если указана, должна существовать
func (i impl) checkLab(labID string) (*string, string, error) {
	if labID == "" {
		return nil, "", nil
	}
	lab, err := i.labStore(i.db).GetByID(labID)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка получения лаборатории")
	}
	if lab == nil {
		return nil, "lab not found", nil
	}
	return &labID, "", nil
}

func profileUpdMap(personal userapimodels.PersonalData, professional userapimodels.ProfessionalData) map[string]interface{} {
	updMap := map[string]interface{}{
		"personal_name":            strings.TrimSpace(personal.Name),
		"personal_phone":           strings.TrimSpace(personal.Phone),
		"personal_dob":             personal.Dob,
		"professional_department":  strings.TrimSpace(professional.Department),
		"professional_designation": strings.TrimSpace(professional.Designation),
		"professional_emp_id":      strings.TrimSpace(professional.EmpID),
	}
	if personal.ProfileImgUrl != "" {
		updMap["personal_profile_img_url"] = personal.ProfileImgUrl
	}
	return updMap
}

func isUniqueViolation(err error) bool {
	return helpers.ContainsAny(err.Error(), "SQLSTATE 23505", "duplicate key")
}
