package handlers

import (
	"errors"
	"net/http"

	"github.com/bigsparsh/inventraX/internal/services"
	"github.com/bigsparsh/inventraX/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

// GetStaff handles GET /api/staff.
func (h *StaffHandler) GetStaff(c *gin.Context) {
	staff, err := h.staffService.GetStaff()
	if err != nil {
		utils.LogError(err, "GetStaff: Error from staffService.GetStaff")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch staff members.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, staff)
}

// CreateStaff handles POST /api/staff.
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req services.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	staff, err := h.staffService.CreateStaff(req)
	if err != nil {
		utils.LogError(err, "CreateStaff: Error from staffService.CreateStaff")
		switch {
		case errors.Is(err, services.ErrEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already exists.", err.Error()))
		case errors.Is(err, services.ErrStaffValidation), errors.Is(err, services.ErrDobFormat), errors.Is(err, services.ErrInvalidRole):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// UpdateStaff handles PUT /api/staff/:id.
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	userID := c.Param("id")
	if !validUUID(userID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid user ID format.", ""))
		return
	}

	var req services.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	staff, err := h.staffService.UpdateStaff(userID, req)
	if err != nil {
		utils.LogError(err, "UpdateStaff: Error from staffService.UpdateStaff for ID "+userID)
		switch {
		case errors.Is(err, services.ErrStaffNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", ""))
		case errors.Is(err, services.ErrEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already exists.", err.Error()))
		case errors.Is(err, services.ErrStaffEmptyUpdate), errors.Is(err, services.ErrStaffValidation), errors.Is(err, services.ErrDobFormat):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, staff)
}

// PromoteStaffRequest is the body of POST /api/staff/promote.
type PromoteStaffRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// PromoteStaff handles POST /api/staff/promote.
func (h *StaffHandler) PromoteStaff(c *gin.Context) {
	var req PromoteStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "userId and role are required", err.Error()))
		return
	}
	if !validUUID(req.UserID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid user ID format.", ""))
		return
	}

	if err := h.staffService.PromoteStaff(req.UserID, req.Role); err != nil {
		utils.LogError(err, "PromoteStaff: Error from staffService.PromoteStaff for ID "+req.UserID)
		switch {
		case errors.Is(err, services.ErrStaffNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", ""))
		case errors.Is(err, services.ErrInvalidRole):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid role. Must be ADMIN, MANAGER, or STAFF.", ""))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to promote user.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User promoted to " + req.Role + " successfully"})
}

// FireStaffRequest is the body of POST /api/staff/fire.
type FireStaffRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// FireStaff handles POST /api/staff/fire.
func (h *StaffHandler) FireStaff(c *gin.Context) {
	var req FireStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "userId is required", err.Error()))
		return
	}
	if !validUUID(req.UserID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid user ID format.", ""))
		return
	}

	if err := h.staffService.FireStaff(req.UserID); err != nil {
		utils.LogError(err, "FireStaff: Error from staffService.FireStaff for ID "+req.UserID)
		if errors.Is(err, services.ErrStaffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", ""))
			return
		}
		if errors.Is(err, services.ErrStaffReferenced) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "User is referenced by transactions or logs.", ""))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to remove user.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed successfully"})
}
