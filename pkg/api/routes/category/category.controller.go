package category

import (
	"stockwatch-backend/pkg/api/endpoint"
	"stockwatch-backend/pkg/api/errors"
	"stockwatch-backend/pkg/api/middleware"
	"stockwatch-backend/pkg/api/routes/auth"
	"stockwatch-backend/pkg/enum"
	"strconv"
	"time"

	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterCategoryEndpoints(r *gin.RouterGroup) {
	r.Use(middleware.LoggerMiddleware("Category"))
	r.Use(middleware.RateLimiterMiddleware(250, 10*time.Minute))
	r.GET("/", getCategoriesController)
	r.GET("/:categoryId", getCategoryByIdController)
	r.POST("/", auth.AuthGuard(), createCategoryController)
	r.PUT("/:categoryId", auth.AuthGuard(), updateCategoryController)
	r.DELETE("/:categoryId", auth.AuthGuard(), deleteCategoryController)
}

func categoryIdParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("categoryId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.ApiError{
			Code:    http.StatusBadRequest,
			Error:   enum.MalformedRequest,
			Details: "categoryId must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func createCategoryController(c *gin.Context) {
	payload, logger, db, _, _, errs := endpoint.SetupEndpoint[CreateCategoryRequest](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	category, err := createCategory(db, payload, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func getCategoriesController(c *gin.Context) {
	_, logger, db, _, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	categories, err := getCategories(db, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func getCategoryByIdController(c *gin.Context) {
	_, logger, db, _, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	id, ok := categoryIdParam(c)
	if !ok {
		return
	}

	category, err := getCategoryById(db, id, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func updateCategoryController(c *gin.Context) {
	payload, logger, db, _, _, errs := endpoint.SetupEndpoint[UpdateCategoryRequest](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	id, ok := categoryIdParam(c)
	if !ok {
		return
	}

	category, err := updateCategory(db, id, payload, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func deleteCategoryController(c *gin.Context) {
	_, logger, db, _, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	id, ok := categoryIdParam(c)
	if !ok {
		return
	}

	err := deleteCategory(db, id, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
