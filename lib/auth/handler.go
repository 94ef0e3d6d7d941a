package authhandler

import (
	"labstock-backend/db"
	usersstore "labstock-backend/lib/users/store"
	authutils "labstock-backend/lib/utils/auth-utils"
	"labstock-backend/lib/utils/helpers"
	"labstock-backend/models"
	authapimodels "labstock-backend/models/api/auth"
	dbmodels "labstock-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Provider interface {
	Login(data authapimodels.LoginRequest) (response authapimodels.JWTResponse, hMsg string, err error)
	// Refresh перечитывает пользователя, удаленный пользователь или смена роли применяются здесь
	Refresh(data authapimodels.JWTRefreshRequest) (response authapimodels.JWTResponse, hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB)
}

func NewInstance(DB *gorm.DB) Provider {
	return impl{
		store: usersstore.NewInstance(DB),
	}
}

type impl struct {
	store usersstore.Provider
}

const msgInvalidCredentials = "invalid email or password"

func (i impl) Login(data authapimodels.LoginRequest) (response authapimodels.JWTResponse, hMsg string, err error) {
	logger := log.WithField("email", data.Email)
	err = data.Validate()
	if err != nil {
		return response, err.Error(), nil
	}
	user, err := i.store.FindByEmail(data.Email)
	if err != nil {
		return response, "", errors.Wrap(err, "ошибка поиска пользователя по почте")
	}
	if user == nil {
		logger.Debug("пользователь с такой почтой не найден")
		return response, msgInvalidCredentials, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(data.Password))
	if err != nil {
		logger.Debug("пользователь не прошел проверку пароля")
		return response, msgInvalidCredentials, nil
	}
	response, err = issueTokens(*user)
	if err != nil {
		return response, "", err
	}
	logger.
		WithField("user_id", user.ID).
		Info("пользователь вошел в систему")
	return response, "", nil
}

func (i impl) Refresh(data authapimodels.JWTRefreshRequest) (response authapimodels.JWTResponse, hMsg string, err error) {
	err = data.Validate()
	if err != nil {
		return response, err.Error(), nil
	}
	userID, err := authutils.ParseRefreshToken(data.RefreshToken)
	if err != nil {
		log.WithError(err).Debug("refresh token не прошел проверку")
		return response, FriendlyAuthError(err), nil
	}
	user, err := i.store.GetByID(userID)
	if err != nil {
		return response, "", errors.Wrap(err, "ошибка получения пользователя")
	}
	if user == nil {
		return response, "account no longer exists", nil
	}
	response, err = issueTokens(*user)
	if err != nil {
		return response, "", err
	}
	return response, "", nil
}

func issueTokens(user dbmodels.User) (response authapimodels.JWTResponse, err error) {
	session := models.Session{
		UserID: user.ID,
		Name:   user.GetName(),
		Role:   user.Role,
		LabID:  user.GetLabID(),
	}
	response.Token, err = authutils.GetToken(session)
	if err != nil {
		return response, errors.Wrap(err, "ошибка генерации JWT")
	}
	response.RefreshToken, err = authutils.GetRefreshToken(user.ID)
	if err != nil {
		return response, errors.Wrap(err, "ошибка генерации refresh JWT")
	}
	response.Role = user.Role
	response.LabID = session.LabID
	return response, nil
}

// FriendlyAuthError текст ошибки авторизации для пользователя
func FriendlyAuthError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case helpers.ContainsAny(msg, "missing or malformed", "no token"):
		return "sign in to continue"
	case helpers.ContainsAny(msg, "expired"):
		return "your session has expired, please sign in again"
	case helpers.ContainsAny(msg, "signature is invalid", "malformed", "unverifiable", "signing method"):
		return "invalid token, please sign in again"
	case helpers.ContainsAny(msg, "not a refresh token"):
		return "refresh token is required"
	}
	return "authorization failed, please sign in again"
}
