package authapimodels

import (
	"labstock-backend/models"
	"strings"

	"github.com/pkg/errors"
)

type JWTResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	Role         models.UserRole `json:"role"`
	LabID        string          `json:"lab_id,omitempty"`
}

type JWTRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r JWTRefreshRequest) Validate() error {
	if len(strings.TrimSpace(r.RefreshToken)) == 0 {
		return errors.New("refresh token is required")
	}
	return nil
}
