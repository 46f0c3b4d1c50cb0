package product

import (
	"stockwatch-backend/pkg/api/errors"
	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/database"
	"stockwatch-backend/pkg/enum"
	"stockwatch-backend/pkg/logger"
	"stockwatch-backend/pkg/minio"

	"fmt"
	"net/http"

	"gorm.io/gorm"
)

func imageObjectKey(id uint) string {
	return fmt.Sprintf("product-%d", id)
}

// StockNotifier is the broadcast entry point the stock endpoint fires after a
// successful quantity change.
type StockNotifier interface {
	BroadcastStockUpdate(productID uint, productName string, oldQuantity, newQuantity int)
}

func createProduct(db *gorm.DB, payload *CreateProductRequest, logger *logger.Logger) (*database.Product, *errors.ApiError) {
	var category database.Category
	result := db.Raw("CALL sp_get_category_by_id(?)", payload.CategoryID).Scan(&category)
	if result.Error != nil || result.RowsAffected == 0 {
		logger.PrintfWarning("Category %d does not exist", payload.CategoryID)
		return nil, &errors.ApiError{
			Code:  http.StatusBadRequest,
			Error: enum.MalformedRequest,
		}
	}

	var product database.Product
	if err := db.Raw("CALL sp_create_product(?, ?, ?, ?, ?)",
		payload.Name, payload.Description, payload.Price, payload.Quantity, payload.CategoryID,
	).Scan(&product).Error; err != nil {
		logger.PrintfError("Error creating product: %s", err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	logger.Printf("Successfully created product: %d", product.ID)

	return &product, nil
}

func getProducts(db *gorm.DB, logger *logger.Logger) ([]database.Product, *errors.ApiError) {
	var products []database.Product
	if err := db.Raw("CALL sp_get_products()").Scan(&products).Error; err != nil {
		logger.PrintfError("Error getting products: %s", err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	return products, nil
}

func getProductById(db *gorm.DB, id uint, logger *logger.Logger) (*database.Product, *errors.ApiError) {
	var product database.Product
	result := db.Raw("CALL sp_get_product_by_id(?)", id).Scan(&product)
	if result.Error != nil {
		logger.PrintfError("Error getting product %d: %s", id, result.Error)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}
	if result.RowsAffected == 0 {
		logger.PrintfWarning("Product %d not found", id)
		return nil, &errors.ApiError{
			Code:  http.StatusNotFound,
			Error: enum.NotFound,
		}
	}

	return &product, nil
}

func updateProduct(db *gorm.DB, id uint, payload *UpdateProductRequest, logger *logger.Logger) (*database.Product, *errors.ApiError) {
	product, apiErr := getProductById(db, id, logger)
	if apiErr != nil {
		return nil, apiErr
	}

	if payload.Name != nil {
		product.Name = *payload.Name
	}
	if payload.Description != nil {
		product.Description = payload.Description
	}
	if payload.Price != nil {
		product.Price = *payload.Price
	}
	if payload.CategoryID != nil {
		product.CategoryID = *payload.CategoryID
	}

	var updated database.Product
	if err := db.Raw("CALL sp_update_product(?, ?, ?, ?, ?)",
		product.ID, product.Name, product.Description, product.Price, product.CategoryID,
	).Scan(&updated).Error; err != nil {
		logger.PrintfError("Error updating product %d: %s", id, err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	logger.Printf("Successfully updated product: %d", updated.ID)

	return &updated, nil
}

// updateProductStock changes a product's quantity through the stored
// procedure and notifies all subscribed clients about the change.
func updateProductStock(db *gorm.DB, id uint, payload *UpdateStockRequest, notifier StockNotifier, logger *logger.Logger) (*database.Product, *errors.ApiError) {
	product, apiErr := getProductById(db, id, logger)
	if apiErr != nil {
		return nil, apiErr
	}

	oldQuantity := product.Quantity

	var updated database.Product
	if err := db.Raw("CALL sp_update_product_stock(?, ?)", id, payload.Quantity).Scan(&updated).Error; err != nil {
		logger.PrintfError("Error updating stock of product %d: %s", id, err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	logger.Printf("Stock of product %d changed from %d to %d", updated.ID, oldQuantity, updated.Quantity)

	notifier.BroadcastStockUpdate(updated.ID, updated.Name, oldQuantity, updated.Quantity)

	return &updated, nil
}

func deleteProduct(db *gorm.DB, id uint, cfg *config.Config, logger *logger.Logger) *errors.ApiError {
	product, apiErr := getProductById(db, id, logger)
	if apiErr != nil {
		return apiErr
	}

	if err := db.Exec("CALL sp_delete_product(?)", id).Error; err != nil {
		logger.PrintfError("Error deleting product %d: %s", id, err)
		return &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	if product.ImageURL != nil {
		if err := minio.DeleteObject(logger, cfg, cfg.ProductImageBucketName, imageObjectKey(product.ID)); err != nil {
			logger.PrintfWarning("Could not delete image of product %d", product.ID)
		}
	}

	logger.Printf("Successfully deleted product: %d", id)

	return nil
}

func getProductImageURL(db *gorm.DB, id uint, cfg *config.Config, logger *logger.Logger) (*string, *errors.ApiError) {
	product, apiErr := getProductById(db, id, logger)
	if apiErr != nil {
		return nil, apiErr
	}

	return minio.GenerateDownloadURL(logger, cfg, cfg.ProductImageBucketName, imageObjectKey(product.ID), 7*24*60*60)
}

func generateUploadProductImageURL(db *gorm.DB, id uint, cfg *config.Config, logger *logger.Logger) (*string, *errors.ApiError) {
	product, apiErr := getProductById(db, id, logger)
	if apiErr != nil {
		return nil, apiErr
	}

	uploadURL, err := minio.GenerateUploadURL(logger, cfg, cfg.ProductImageBucketName, imageObjectKey(product.ID), 60*60)
	if err != nil {
		return nil, err
	}

	logger.Printf("Successfully generated image upload URL for product: %d", product.ID)

	return uploadURL, nil
}
