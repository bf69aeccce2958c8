package handlers

import (
	"errors"
	"net/http"

	"github.com/bigsparsh/inventraX/internal/services"
	"github.com/bigsparsh/inventraX/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CategoryHandler holds the category service.
type CategoryHandler struct {
	categoryService services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(cs services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: cs}
}

// GetCategories handles GET /api/categories.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		utils.LogError(err, "GetCategories: Error from categoryService.GetCategories")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch categories.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryByID handles GET /api/categories/:id.
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	categoryID := c.Param("id")
	if !validUUID(categoryID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", ""))
		return
	}

	category, err := h.categoryService.GetCategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", ""))
			return
		}
		utils.LogError(err, "GetCategoryByID: Error from categoryService.GetCategoryByID for ID "+categoryID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch category.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /api/categories.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(req)
	if err != nil {
		utils.LogError(err, "CreateCategory: Error from categoryService.CreateCategory")
		if errors.Is(err, services.ErrCategoryValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create category.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/:id.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.Param("id")
	if !validUUID(categoryID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", ""))
		return
	}

	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(categoryID, req)
	if err != nil {
		utils.LogError(err, "UpdateCategory: Error from categoryService.UpdateCategory for ID "+categoryID)
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", ""))
		case errors.Is(err, services.ErrCategoryEmptyUpdate), errors.Is(err, services.ErrCategoryValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories/:id.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.Param("id")
	if !validUUID(categoryID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", ""))
		return
	}

	if err := h.categoryService.DeleteCategory(categoryID); err != nil {
		utils.LogError(err, "DeleteCategory: Error from categoryService.DeleteCategory for ID "+categoryID)
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", ""))
		case errors.Is(err, services.ErrCategoryInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category is referenced by products.", ""))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
