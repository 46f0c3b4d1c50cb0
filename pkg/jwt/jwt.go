package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTTokenPayload is the claim set carried by both access and refresh tokens.
type JWTTokenPayload struct {
	UserID    string `json:"userId"`
	Random    string `json:"random"`
	IsRefresh bool   `json:"isRefresh"`
	jwt.RegisteredClaims
}

type JWTPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func CreateTokenPayload(userID string, random string, expires time.Time, isRefresh bool) JWTTokenPayload {
	return JWTTokenPayload{
		UserID:    userID,
		Random:    random,
		IsRefresh: isRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

// GenerateJwt signs the payload with HS256 and the given secret.
func GenerateJwt(secret string, payload JWTTokenPayload) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and verifies a token, returning its payload.
func ValidateToken(secret string, tokenString string) (*JWTTokenPayload, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTTokenPayload{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	payload, ok := token.Claims.(*JWTTokenPayload)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return payload, nil
}
