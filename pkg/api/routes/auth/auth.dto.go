package auth

import (
	"stockwatch-backend/pkg/jwt"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenResponse struct {
	jwt.JWTPair
	AccessTokenExpires int `json:"accessTokenExpires"`
}
