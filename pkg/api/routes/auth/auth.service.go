package auth

import (
	"stockwatch-backend/pkg/api/errors"
	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/database"
	"stockwatch-backend/pkg/enum"
	"stockwatch-backend/pkg/jwt"
	"stockwatch-backend/pkg/logger"

	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func loginService(db *gorm.DB, cfg *config.Config, payload *LoginRequest, logger *logger.Logger) (*jwt.JWTPair, *database.User, *errors.ApiError) {
	var user database.User
	if err := db.Where("email = ?", payload.Email).First(&user).Error; err != nil {
		logger.PrintfWarning("User with email: %s not found", payload.Email)
		return nil, nil, &errors.ApiError{
			Code:  http.StatusUnauthorized,
			Error: enum.WrongCredentials,
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		logger.PrintfWarning("Wrong password for user with email: %s", payload.Email)
		return nil, nil, &errors.ApiError{
			Code:  http.StatusUnauthorized,
			Error: enum.WrongCredentials,
		}
	}

	tokens, apiErr := issueTokenPair(db, cfg, user.ID, logger)
	if apiErr != nil {
		return nil, nil, apiErr
	}

	return tokens, &user, nil
}

func refreshService(db *gorm.DB, cfg *config.Config, payload *jwt.JWTTokenPayload, logger *logger.Logger) (*jwt.JWTPair, *errors.ApiError) {
	var key database.UserKeys
	if err := db.Where("random = ? AND user_id = ?", payload.Random, payload.UserID).First(&key).Error; err != nil {
		logger.PrintfWarning("Refresh token for user %s is not known", payload.UserID)
		return nil, &errors.ApiError{
			Code:  http.StatusUnauthorized,
			Error: enum.InvalidRefreshToken,
		}
	}

	// Rotation: the used refresh token is spent
	if err := db.Delete(&key).Error; err != nil {
		logger.PrintfError("Error deleting user key: %s", err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	return issueTokenPair(db, cfg, payload.UserID, logger)
}

func logoutService(db *gorm.DB, payload *jwt.JWTTokenPayload, logger *logger.Logger) *errors.ApiError {
	if err := db.Where("random = ?", payload.Random).Delete(&database.UserKeys{}).Error; err != nil {
		logger.PrintfError("Error deleting user key: %s", err)
		return &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	logger.PrintfInfo("User %s logged out", payload.UserID)

	return nil
}

func issueTokenPair(db *gorm.DB, cfg *config.Config, userID string, logger *logger.Logger) (*jwt.JWTPair, *errors.ApiError) {
	random := uuid.NewString()
	expires := time.Now().Add(time.Duration(cfg.JwtExpirationTime) * time.Second)
	refreshExpires := time.Now().Add(time.Duration(cfg.RefreshExpirationTime) * time.Second)

	accessToken, err := jwt.GenerateJwt(cfg.JwtSecret, jwt.CreateTokenPayload(userID, random, expires, false))
	if err != nil {
		logger.PrintfError("Error generating jwt: %s", err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	refreshToken, err := jwt.GenerateJwt(cfg.JwtSecret, jwt.CreateTokenPayload(userID, random, refreshExpires, true))
	if err != nil {
		logger.PrintfError("Error generating jwt: %s", err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	entry := database.UserKeys{
		Random:    random,
		UserID:    userID,
		ExpiredAt: refreshExpires,
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.PrintfError("Error creating user key: %s", err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	return &jwt.JWTPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
