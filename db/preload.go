package db

import (
	"labstock-backend/config"
	usersstore "labstock-backend/lib/users/store"
	"labstock-backend/models"
	dbmodels "labstock-backend/models/db"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func InitPreload() {
	addAdmin()
}

// addAdmin первый администратор, остальных пользователей он приглашает сам
func addAdmin() {
	if config.Conf.Admin.Email == "" || config.Conf.Admin.Password == "" {
		log.Warn("администратор не добавлен, отсутствуют настройки ADMIN_EMAIL/ADMIN_PASSWORD")
		return
	}
	store := usersstore.NewInstance(DB)
	existedRec, err := store.FindByEmail(config.Conf.Admin.Email)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	if existedRec != nil {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(config.Conf.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("ошибка хеширования пароля администратора")
		return
	}
	rec := dbmodels.User{
		Role:         models.AdminRole,
		PasswordHash: string(hash),
		Personal: dbmodels.PersonalInfo{
			Name:  config.Conf.Admin.Name,
			Email: config.Conf.Admin.Email,
		},
	}
	_, err = store.Create(rec)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	log.WithField("email", config.Conf.Admin.Email).Info("добавлен администратор")
}
