package initializers

import (
	"labstock-backend/config"
	"labstock-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	conf := config.Conf.Smtp
	err := smtp.Connect(conf.User, conf.Password, conf.Host, conf.Port, conf.From, *conf.TLSEnabled)
	if err != nil {
		panic(err.Error())
	}
	if !smtp.Instance.Enabled() {
		log.Warn("smtp не настроен, уведомления по почте отключены")
	}
}
