package authutils

import (
	"labstock-backend/config"
	"labstock-backend/models"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func setConfig() {
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = "test-secret"
	conf.Auth.JWTExpireInSec = 60
	conf.Auth.JWTRefreshExpireInSec = 120
	config.Conf = conf
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	setConfig()
	token, err := GetRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := ParseRefreshToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestAccessTokenIsNotRefreshToken(t *testing.T) {
	setConfig()
	token, err := GetToken(models.Session{UserID: "user-1", Name: "Ann", Role: models.LabUserRole, LabID: "lab-1"})
	require.NoError(t, err)

	_, err = ParseRefreshToken(token)
	require.Error(t, err)
}

func TestAccessTokenClaims(t *testing.T) {
	setConfig()
	tokenString, err := GetToken(models.Session{UserID: "user-1", Name: "Ann", Role: models.StockManagerRole, LabID: "lab-1"})
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "user-1", claims["sub"])
	require.Equal(t, "stock_manager", claims["role"])
	require.Equal(t, "lab-1", claims["lab"])
}

func TestParseRefreshTokenWrongSecret(t *testing.T) {
	setConfig()
	token, err := GetRefreshToken("user-1")
	require.NoError(t, err)

	config.Conf.Auth.JWTSecret = "another"
	_, err = ParseRefreshToken(token)
	require.Error(t, err)
}
