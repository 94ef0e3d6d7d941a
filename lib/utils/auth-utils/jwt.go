package authutils

import (
	"labstock-backend/config"
	"labstock-backend/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const refreshTokenType = "refresh"

func GetToken(session models.Session) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name": session.Name,
		"sub":  session.UserID,
		"lab":  session.LabID,
		"role": string(session.Role),
		"exp":  time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetRefreshToken(userID string) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": refreshTokenType,
		"exp": time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTRefreshExpireInSec)).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

// ParseRefreshToken проверяет подпись и срок действия, возвращает идентификатор пользователя
func ParseRefreshToken(tokenString string) (userID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Conf.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	if typ, _ := claims["typ"].(string); typ != refreshTokenType {
		return "", errors.New("token is not a refresh token")
	}
	userID, _ = claims["sub"].(string)
	if userID == "" {
		return "", errors.New("token subject is empty")
	}
	return userID, nil
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}
