package auth

import (
	"stockwatch-backend/pkg/api/errors"
	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/enum"
	"stockwatch-backend/pkg/jwt"

	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthGuard rejects requests without a valid access token cookie and stores
// the token payload under "user" for the handlers behind it.
func AuthGuard() gin.HandlerFunc {
	return guard("access_token", false)
}

// RefreshAuthGuard is the same gate for the refresh endpoint, which carries
// the refresh token instead.
func RefreshAuthGuard() gin.HandlerFunc {
	return guard("refresh_token", true)
}

func guard(cookieName string, wantRefresh bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawCfg, ok := c.Get("config")
		if !ok {
			c.JSON(http.StatusInternalServerError, errors.ApiError{
				Code:    http.StatusInternalServerError,
				Error:   "ConfigError",
				Details: "Config not found in context",
			})
			c.Abort()
			return
		}

		cfg, ok := rawCfg.(*config.Config)
		if !ok {
			c.JSON(http.StatusInternalServerError, errors.ApiError{
				Code:    http.StatusInternalServerError,
				Error:   "ConfigError",
				Details: "Config is not of type *config.Config",
			})
			c.Abort()
			return
		}

		token, err := c.Cookie(cookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, errors.ApiError{
				Code:  http.StatusUnauthorized,
				Error: enum.Unauthorized,
			})
			c.Abort()
			return
		}

		payload, err := jwt.ValidateToken(cfg.JwtSecret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, errors.ApiError{
				Code:  http.StatusUnauthorized,
				Error: enum.ExpiredToken,
			})
			c.Abort()
			return
		}

		if payload.IsRefresh != wantRefresh {
			c.JSON(http.StatusUnauthorized, errors.ApiError{
				Code:  http.StatusUnauthorized,
				Error: enum.Unauthorized,
			})
			c.Abort()
			return
		}

		c.Set("user", payload)
		c.Next()
	}
}
