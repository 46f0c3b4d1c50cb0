package product

import (
	"stockwatch-backend/pkg/api/endpoint"
	"stockwatch-backend/pkg/api/errors"
	"stockwatch-backend/pkg/api/middleware"
	"stockwatch-backend/pkg/api/routes/auth"
	"stockwatch-backend/pkg/enum"
	"stockwatch-backend/pkg/notify"
	"strconv"
	"time"

	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterProductEndpoints(r *gin.RouterGroup) {
	r.Use(middleware.LoggerMiddleware("Product"))
	r.Use(middleware.RateLimiterMiddleware(250, 10*time.Minute))
	r.GET("/", getProductsController)
	r.GET("/:productId", getProductByIdController)
	r.GET("/:productId/image", getProductImageController)
	r.POST("/", auth.AuthGuard(), createProductController)
	r.PUT("/:productId", auth.AuthGuard(), updateProductController)
	r.PATCH("/:productId/stock", auth.AuthGuard(), updateProductStockController)
	r.GET("/:productId/image-upload", auth.AuthGuard(), uploadProductImageController)
	r.DELETE("/:productId", auth.AuthGuard(), deleteProductController)
}

func productIdParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, errors.ApiError{
			Code:    http.StatusBadRequest,
			Error:   enum.MalformedRequest,
			Details: "productId must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func createProductController(c *gin.Context) {
	payload, logger, db, _, _, errs := endpoint.SetupEndpoint[CreateProductRequest](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	product, err := createProduct(db, payload, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func getProductsController(c *gin.Context) {
	_, logger, db, _, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	products, err := getProducts(db, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func getProductByIdController(c *gin.Context) {
	_, logger, db, _, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	id, ok := productIdParam(c)
	if !ok {
		return
	}

	product, err := getProductById(db, id, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func updateProductController(c *gin.Context) {
	payload, logger, db, _, _, errs := endpoint.SetupEndpoint[UpdateProductRequest](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	id, ok := productIdParam(c)
	if !ok {
		return
	}

	product, err := updateProduct(db, id, payload, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func updateProductStockController(c *gin.Context) {
	payload, logger, db, _, _, errs := endpoint.SetupEndpoint[UpdateStockRequest](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	id, ok := productIdParam(c)
	if !ok {
		return
	}

	rawNotifier, ok := c.Get("notifier")
	if !ok {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.NotBroadcastable,
			Details: "Notifier not found in context",
		})
		return
	}

	notifier, ok := rawNotifier.(*notify.Server)
	if !ok {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.NotBroadcastable,
			Details: "Notifier is not of type *notify.Server",
		})
		return
	}

	product, err := updateProductStock(db, id, payload, notifier, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func getProductImageController(c *gin.Context) {
	_, logger, db, cfg, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	id, ok := productIdParam(c)
	if !ok {
		return
	}

	imageURL, err := getProductImageURL(db, id, cfg, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, imageURL)
}

func uploadProductImageController(c *gin.Context) {
	_, logger, db, cfg, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	id, ok := productIdParam(c)
	if !ok {
		return
	}

	uploadURL, err := generateUploadProductImageURL(db, id, cfg, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, uploadURL)
}

func deleteProductController(c *gin.Context) {
	_, logger, db, cfg, _, errs := endpoint.SetupEndpoint[any](c)
	if len(errs) > 0 {
		c.JSON(http.StatusInternalServerError, errors.ApiError{
			Code:    http.StatusInternalServerError,
			Error:   enum.ApiError,
			Details: errs,
		})
		return
	}

	id, ok := productIdParam(c)
	if !ok {
		return
	}

	err := deleteProduct(db, id, cfg, logger)
	if err != nil {
		c.JSON(err.Code, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
