package notify

import (
	"fmt"
	"labstock-backend/db"
	"labstock-backend/lib/smtp"
	usersstore "labstock-backend/lib/users/store"
	initchecker "labstock-backend/lib/utils/init-checker"
	"labstock-backend/models"
	dbmodels "labstock-backend/models/db"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Provider уведомления по почте. Ошибки отправки только логируются
type Provider interface {
	// RequestDecided письмо автору заявки уходит в фоне, вызов не ждет smtp сервер
	RequestDecided(request dbmodels.Request, approved dbmodels.ApprovedItems)
	LowStock(items []dbmodels.Equipment)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(usersstore.NewInstance(db.DB), smtp.Instance)
}

func NewInstance(users usersstore.Provider, mailer smtp.Provider) Provider {
	instance := impl{
		users:  users,
		mailer: mailer,
	}
	initchecker.CheckInit(
		"users", instance.users,
		"mailer", instance.mailer,
	)
	return instance
}

type impl struct {
	users  usersstore.Provider
	mailer smtp.Provider
}

func (i impl) RequestDecided(request dbmodels.Request, approved dbmodels.ApprovedItems) {
	go i.sendDecision(request, approved)
}

func (i impl) sendDecision(request dbmodels.Request, approved dbmodels.ApprovedItems) {
	logger := log.
		WithField("request_id", request.ID).
		WithField("user_id", request.UserID)
	user, err := i.users.GetByID(request.UserID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения автора заявки")
		return
	}
	if user == nil || user.Personal.Email == "" {
		logger.Warn("у автора заявки не указана почта, уведомление не отправлено")
		return
	}
	subject, message := decisionMessage(request, approved)
	err = i.mailer.SendEMail(user.Personal.Email, subject, message)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления о решении по заявке")
	}
}

func (i impl) LowStock(items []dbmodels.Equipment) {
	if len(items) == 0 || !i.mailer.Enabled() {
		return
	}
	managers, err := i.users.ListByRoles([]models.UserRole{models.AdminRole, models.StockManagerRole})
	if err != nil {
		log.WithError(err).Error("ошибка получения списка получателей сводки по остаткам")
		return
	}
	message := lowStockMessage(items)
	for _, manager := range managers {
		if manager.Personal.Email == "" {
			continue
		}
		err = i.mailer.SendEMail(manager.Personal.Email, "Low stock", message)
		if err != nil {
			log.
				WithError(err).
				WithField("user_id", manager.ID).
				Error("ошибка отправки сводки по остаткам")
		}
	}
}

func decisionMessage(request dbmodels.Request, approved dbmodels.ApprovedItems) (subject, message string) {
	var sb strings.Builder
	switch request.Status {
	case models.RequestStatusRejected:
		subject = "Request rejected"
		sb.WriteString(fmt.Sprintf("Your request %q was rejected.\n", request.Title))
		sb.WriteString(fmt.Sprintf("Reason: %s\n", request.RejectionReason))
		return subject, sb.String()
	case models.RequestStatusPartiallyApproved:
		subject = "Request partially approved"
	default:
		subject = "Request approved"
	}
	sb.WriteString(fmt.Sprintf("Your request %q was %s.\n", request.Title, request.Status))
	for _, item := range approved {
		sb.WriteString(fmt.Sprintf("- %s: %d of %d\n", item.Name, item.ApprovedQuantity, item.RequestedQuantity))
	}
	return subject, sb.String()
}

func lowStockMessage(items []dbmodels.Equipment) string {
	var sb strings.Builder
	sb.WriteString("The following equipment is at or below its low stock threshold:\n")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- %s: %d (alert at %d)\n", item.Name, item.Quantity, item.LowStockAlert))
	}
	return sb.String()
}
