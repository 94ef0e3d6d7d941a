package authapimodels

import (
	"net/mail"

	"github.com/pkg/errors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("email has invalid format")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}
