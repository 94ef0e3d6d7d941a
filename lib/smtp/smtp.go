package smtp

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var Instance Provider

type Provider interface {
	SendEMail(to, subject, message string) error
	Enabled() bool
}

// Connect без host клиент остается выключенным, письма только пишутся в лог
func Connect(user, password, host, port, from string, tlsEnabled bool) error {
	if from == "" {
		from = user
	}
	if host != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return errors.Errorf("invalid smtp port %q", port)
		}
		if _, err := mail.ParseAddress(from); err != nil {
			return errors.Wrapf(err, "invalid smtp sender address %q", from)
		}
	}
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		from:       from,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	from       string
	tlsEnabled bool
}

func (i impl) Enabled() bool {
	return i.user != "" && i.host != "" && i.port != ""
}

func (i impl) SendEMail(to, subject, message string) (err error) {
	logger := log.
		WithField("recipient", to).
		WithField("subject", subject)
	if !i.Enabled() {
		logger.Warn("Письмо не отправлено, тк не настроен smtp клиент")
		return nil
	}
	auth := sasl.NewPlainClient("", i.user, i.password)
	body := strings.NewReader(buildMessage(i.from, to, subject, message))
	if i.tlsEnabled {
		err = smtp.SendMailTLS(i.host+":"+i.port, auth, i.user, []string{to}, body)
	} else {
		err = smtp.SendMail(i.host+":"+i.port, auth, i.user, []string{to}, body)
	}
	if err != nil {
		logger.WithError(err).Error("Ошибка отправки сообщения")
		return err
	}
	logger.Info("письмо отправлено")
	return nil
}

func buildMessage(from, to, subject, message string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: LabStock - %s\r\n", subject))
	sb.WriteString("MIME-version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(strings.ReplaceAll(message, "\n", "\r\n"))
	sb.WriteString("\r\n")
	return sb.String()
}
