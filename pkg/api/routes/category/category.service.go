package category

import (
	"stockwatch-backend/pkg/api/errors"
	"stockwatch-backend/pkg/database"
	"stockwatch-backend/pkg/enum"
	"stockwatch-backend/pkg/logger"

	"net/http"

	"gorm.io/gorm"
)

func createCategory(db *gorm.DB, payload *CreateCategoryRequest, logger *logger.Logger) (*database.Category, *errors.ApiError) {
	var existing database.Category
	if err := db.Where("name = ?", payload.Name).First(&existing).Error; err == nil {
		logger.PrintfWarning("Category with name %s already exists", payload.Name)
		return nil, &errors.ApiError{
			Code:  http.StatusConflict,
			Error: enum.AlreadyExists,
		}
	}

	var category database.Category
	if err := db.Raw("CALL sp_create_category(?, ?)", payload.Name, payload.Description).Scan(&category).Error; err != nil {
		logger.PrintfError("Error creating category: %s", err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	logger.Printf("Successfully created category: %d", category.ID)

	return &category, nil
}

func getCategories(db *gorm.DB, logger *logger.Logger) ([]database.Category, *errors.ApiError) {
	var categories []database.Category
	if err := db.Raw("CALL sp_get_categories()").Scan(&categories).Error; err != nil {
		logger.PrintfError("Error getting categories: %s", err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	return categories, nil
}

func getCategoryById(db *gorm.DB, id uint, logger *logger.Logger) (*database.Category, *errors.ApiError) {
	var category database.Category
	result := db.Raw("CALL sp_get_category_by_id(?)", id).Scan(&category)
	if result.Error != nil {
		logger.PrintfError("Error getting category %d: %s", id, result.Error)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}
	if result.RowsAffected == 0 {
		logger.PrintfWarning("Category %d not found", id)
		return nil, &errors.ApiError{
			Code:  http.StatusNotFound,
			Error: enum.NotFound,
		}
	}

	return &category, nil
}

func updateCategory(db *gorm.DB, id uint, payload *UpdateCategoryRequest, logger *logger.Logger) (*database.Category, *errors.ApiError) {
	category, apiErr := getCategoryById(db, id, logger)
	if apiErr != nil {
		return nil, apiErr
	}

	if payload.Name != nil {
		category.Name = *payload.Name
	}
	if payload.Description != nil {
		category.Description = payload.Description
	}

	var updated database.Category
	if err := db.Raw("CALL sp_update_category(?, ?, ?)", category.ID, category.Name, category.Description).Scan(&updated).Error; err != nil {
		logger.PrintfError("Error updating category %d: %s", id, err)
		return nil, &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	logger.Printf("Successfully updated category: %d", updated.ID)

	return &updated, nil
}

func deleteCategory(db *gorm.DB, id uint, logger *logger.Logger) *errors.ApiError {
	if _, apiErr := getCategoryById(db, id, logger); apiErr != nil {
		return apiErr
	}

	var count int64
	if err := db.Model(&database.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		logger.PrintfError("Error counting products of category %d: %s", id, err)
		return &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}
	if count > 0 {
		logger.PrintfWarning("Category %d still has %d products", id, count)
		return &errors.ApiError{
			Code:    http.StatusConflict,
			Error:   enum.MalformedRequest,
			Details: "Category still contains products",
		}
	}

	if err := db.Exec("CALL sp_delete_category(?)", id).Error; err != nil {
		logger.PrintfError("Error deleting category %d: %s", id, err)
		return &errors.ApiError{
			Code:  http.StatusInternalServerError,
			Error: enum.ApiError,
		}
	}

	logger.Printf("Successfully deleted category: %d", id)

	return nil
}
