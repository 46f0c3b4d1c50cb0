package auth

import (
	"stockwatch-backend/pkg/api/endpoint"
	"stockwatch-backend/pkg/api/errors"
	"stockwatch-backend/pkg/api/middleware"
	"stockwatch-backend/pkg/enum"
	"stockwatch-backend/pkg/jwt"
	"time"

	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterAuthEndpoints(r *gin.RouterGroup) {
	r.Use(middleware.LoggerMiddleware("Auth"))
	r.POST("/login", middleware.RateLimiterMiddleware(10, 10*time.Minute), loginController)
	r.GET("/check", middleware.RateLimiterMiddleware(100, 10*time.Minute), AuthGuard(), checkLoginController)
	r.GET("/refresh", middleware.RateLimiterMiddleware(25, 10*time.Minute), RefreshAuthGuard(), refreshController)
	r.GET("/logout", middleware.RateLimiterMiddleware(100, 10*time.Minute), AuthGuard(), logoutController)
}

func loginController(c *gin.Context) {
	payload, logger, db, cfg, _, errs := endpoint.SetupEndpoint[LoginRequest](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	tokens, user, err := loginService(db, cfg, payload, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", tokens.AccessToken, cfg.JwtExpirationTime, "/", cfg.Domain, cfg.Stage == "production", true)
	c.SetCookie("refresh_token", tokens.RefreshToken, cfg.RefreshExpirationTime, "/auth/refresh", cfg.Domain, cfg.Stage == "production", true)

	c.JSON(http.StatusOK, user)
}

func checkLoginController(c *gin.Context) {
	_, logger, _, _, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: "User not found in context",
		})
		return
	}

	logger.PrintfDebug("User with id: %s is currently logged in", user.(*jwt.JWTTokenPayload).UserID)

	// only returns if it comes through the authguard so we can assume the user is logged in
	c.JSON(http.StatusOK, true)
}

func refreshController(c *gin.Context) {
	_, logger, db, cfg, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	payload, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		})
		return
	}

	tokens, err := refreshService(db, cfg, payload.(*jwt.JWTTokenPayload), logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", tokens.AccessToken, cfg.JwtExpirationTime, "/", cfg.Domain, cfg.Stage == "production", true)
	c.SetCookie("refresh_token", tokens.RefreshToken, cfg.RefreshExpirationTime, "/auth/refresh", cfg.Domain, cfg.Stage == "production", true)

	c.JSON(http.StatusOK, gin.H{
		"accessTokenExpiresIn": cfg.JwtExpirationTime,
	})
}

func logoutController(c *gin.Context) {
	_, logger, db, cfg, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		})
		return
	}

	e := logoutService(db, user.(*jwt.JWTTokenPayload), logger)
	if e != nil {
		c.JSON(e.Code, e)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", "", -1, "/", cfg.Domain, cfg.Stage == "production", true)
	c.SetCookie("refresh_token", "", -1, "/auth/refresh", cfg.Domain, cfg.Stage == "production", true)

	c.JSON(http.StatusOK, gin.H{})
}
