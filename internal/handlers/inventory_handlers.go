package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bigsparsh/inventraX/internal/services"
	"github.com/bigsparsh/inventraX/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler holds the inventory workflow service.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// CheckRequest is the shared payload for the check-in and check-out endpoints.
type CheckRequest struct {
	ProductID string `json:"productId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
}

// CheckIn handles POST /api/inventory/check-in.
func (h *InventoryHandler) CheckIn(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if !validUUID(req.ProductID) || !validUUID(req.UserID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product or user ID format.", ""))
		return
	}

	result, err := h.inventoryService.CheckIn(req.ProductID, req.UserID)
	if err != nil {
		utils.LogError(err, "CheckIn: Error from inventoryService.CheckIn for product "+req.ProductID)
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
		case errors.Is(err, services.ErrUserNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", ""))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check in product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": result.Transaction, "old_quantity": result.OldQuantity, "new_quantity": result.NewQuantity})
}

// CheckOut handles POST /api/inventory/check-out.
func (h *InventoryHandler) CheckOut(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if !validUUID(req.ProductID) || !validUUID(req.UserID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product or user ID format.", ""))
		return
	}

	result, err := h.inventoryService.CheckOut(req.ProductID, req.UserID)
	if err != nil {
		utils.LogError(err, "CheckOut: Error from inventoryService.CheckOut for product "+req.ProductID)
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
		case errors.Is(err, services.ErrUserNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", ""))
		case errors.Is(err, services.ErrNoActiveCheckIn):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "No active check-in found for this product.", ""))
		case errors.Is(err, services.ErrQuantityDepleted):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Product quantity is already zero.", ""))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check out product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": result.Transaction, "old_quantity": result.OldQuantity, "new_quantity": result.NewQuantity})
}

// GetTransactions handles GET /api/transactions. An optional ?limit= query
// bounds the result; 0 or absent returns the full history.
func (h *InventoryHandler) GetTransactions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid limit parameter.", ""))
			return
		}
		limit = parsed
	}

	transactions, err := h.inventoryService.GetTransactions(limit)
	if err != nil {
		utils.LogError(err, "GetTransactions: Error from inventoryService.GetTransactions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch transactions.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// DeleteTransaction handles DELETE /api/transactions/:id.
func (h *InventoryHandler) DeleteTransaction(c *gin.Context) {
	transactionID := c.Param("id")
	if !validUUID(transactionID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid transaction ID format.", ""))
		return
	}

	if err := h.inventoryService.DeleteTransaction(transactionID); err != nil {
		utils.LogError(err, "DeleteTransaction: Error from inventoryService.DeleteTransaction for ID "+transactionID)
		if errors.Is(err, services.ErrTransactionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Transaction not found.", ""))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete transaction.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// DeleteLog handles DELETE /api/logs/:id.
func (h *InventoryHandler) DeleteLog(c *gin.Context) {
	logID := c.Param("id")
	if !validUUID(logID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid log ID format.", ""))
		return
	}

	if err := h.inventoryService.DeleteLog(logID); err != nil {
		utils.LogError(err, "DeleteLog: Error from inventoryService.DeleteLog for ID "+logID)
		if errors.Is(err, services.ErrLogNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory log not found.", ""))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete inventory log.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory log deleted successfully"})
}
