package authhandler

import (
	"testing"
	"time"

	"labstock-backend/config"
	authutils "labstock-backend/lib/utils/auth-utils"
	"labstock-backend/lib/utils/testutil/memstore"
	"labstock-backend/models"
	authapimodels "labstock-backend/models/api/auth"
	dbmodels "labstock-backend/models/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newHandler(t *testing.T) (*memstore.DB, impl) {
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = "test-secret"
	conf.Auth.JWTExpireInSec = 60
	conf.Auth.JWTRefreshExpireInSec = 120
	config.Conf = conf

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	labID := "lab-1"
	d := memstore.New()
	d.Users["u1"] = dbmodels.User{
		BaseModel:    dbmodels.BaseModel{ID: "u1"},
		Role:         models.LabUserRole,
		PasswordHash: string(hash),
		Personal:     dbmodels.PersonalInfo{Name: "Ann", Email: "ann@lab.test"},
		LabID:        &labID,
	}
	return d, impl{store: d.UsersStore(nil)}
}

func TestLogin(t *testing.T) {
	_, h := newHandler(t)

	resp, hMsg, err := h.Login(authapimodels.LoginRequest{Email: "ANN@lab.test", Password: "correct-horse"})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, models.LabUserRole, resp.Role)
	require.Equal(t, "lab-1", resp.LabID)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "u1", claims["sub"])
	require.Equal(t, "Ann", claims["name"])
	require.Equal(t, "lab-1", claims["lab"])
}

func TestLoginRefused(t *testing.T) {
	_, h := newHandler(t)

	_, hMsg, err := h.Login(authapimodels.LoginRequest{Email: "ann@lab.test", Password: "wrong"})
	require.NoError(t, err)
	require.Equal(t, msgInvalidCredentials, hMsg)

	_, hMsg, err = h.Login(authapimodels.LoginRequest{Email: "nobody@lab.test", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, msgInvalidCredentials, hMsg)

	_, hMsg, err = h.Login(authapimodels.LoginRequest{Email: "ann", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "email has invalid format", hMsg)
}

func TestRefreshRereadsUser(t *testing.T) {
	d, h := newHandler(t)
	refresh, err := authutils.GetRefreshToken("u1")
	require.NoError(t, err)

	user := d.Users["u1"]
	user.Role = models.StockManagerRole
	d.Users["u1"] = user

	resp, hMsg, err := h.Refresh(authapimodels.JWTRefreshRequest{RefreshToken: refresh})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, models.StockManagerRole, resp.Role)

	delete(d.Users, "u1")
	_, hMsg, err = h.Refresh(authapimodels.JWTRefreshRequest{RefreshToken: refresh})
	require.NoError(t, err)
	require.Equal(t, "account no longer exists", hMsg)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	_, h := newHandler(t)
	access, err := authutils.GetToken(models.Session{UserID: "u1", Role: models.LabUserRole})
	require.NoError(t, err)

	_, hMsg, err := h.Refresh(authapimodels.JWTRefreshRequest{RefreshToken: access})
	require.NoError(t, err)
	require.Equal(t, "refresh token is required", hMsg)
}

func TestRefreshExpired(t *testing.T) {
	_, h := newHandler(t)
	claims := jwt.MapClaims{
		"sub": "u1",
		"typ": "refresh",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, hMsg, err := h.Refresh(authapimodels.JWTRefreshRequest{RefreshToken: expired})
	require.NoError(t, err)
	require.Equal(t, "your session has expired, please sign in again", hMsg)
}

func TestFriendlyAuthError(t *testing.T) {
	require.Equal(t, "invalid token, please sign in again", FriendlyAuthError(errors.New("token signature is invalid")))
	require.Equal(t, "sign in to continue", FriendlyAuthError(errors.New("missing or malformed JWT")))
	require.Equal(t, "authorization failed, please sign in again", FriendlyAuthError(errors.New("boom")))
	require.Empty(t, FriendlyAuthError(nil))
}
