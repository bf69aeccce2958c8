package handlers

import (
	"net/http"
	"strconv"

	"github.com/bigsparsh/inventraX/internal/services"
	"github.com/bigsparsh/inventraX/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler holds the dashboard service.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ds services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

// parsePositiveIntQuery parses an optional positive integer query parameter,
// returning the fallback when the parameter is absent.
func parsePositiveIntQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

// GetStats handles GET /api/dashboard/stats.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats()
	if err != nil {
		utils.LogError(err, "GetStats: Error from dashboardService.GetStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch dashboard statistics.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetCategoryDistribution handles GET /api/dashboard/categories.
func (h *DashboardHandler) GetCategoryDistribution(c *gin.Context) {
	distribution, err := h.dashboardService.GetCategoryDistribution()
	if err != nil {
		utils.LogError(err, "GetCategoryDistribution: Error from dashboardService.GetCategoryDistribution")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch category distribution.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, distribution)
}

// GetLowStockProducts handles GET /api/dashboard/low-stock. An optional
// ?threshold= query overrides the default cutoff.
func (h *DashboardHandler) GetLowStockProducts(c *gin.Context) {
	threshold, ok := parsePositiveIntQuery(c, "threshold", 0)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid threshold parameter.", ""))
		return
	}

	products, err := h.dashboardService.GetLowStockProducts(threshold)
	if err != nil {
		utils.LogError(err, "GetLowStockProducts: Error from dashboardService.GetLowStockProducts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch low stock products.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetRecentTransactions handles GET /api/dashboard/transactions.
func (h *DashboardHandler) GetRecentTransactions(c *gin.Context) {
	limit, ok := parsePositiveIntQuery(c, "limit", 0)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid limit parameter.", ""))
		return
	}

	transactions, err := h.dashboardService.GetRecentTransactions(limit)
	if err != nil {
		utils.LogError(err, "GetRecentTransactions: Error from dashboardService.GetRecentTransactions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch recent transactions.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// GetRecentLogs handles GET /api/dashboard/logs.
func (h *DashboardHandler) GetRecentLogs(c *gin.Context) {
	limit, ok := parsePositiveIntQuery(c, "limit", 0)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid limit parameter.", ""))
		return
	}

	logs, err := h.dashboardService.GetRecentLogs(limit)
	if err != nil {
		utils.LogError(err, "GetRecentLogs: Error from dashboardService.GetRecentLogs")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory logs.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetTransactionTrends handles GET /api/dashboard/trends.
func (h *DashboardHandler) GetTransactionTrends(c *gin.Context) {
	trends, err := h.dashboardService.GetTransactionTrends()
	if err != nil {
		utils.LogError(err, "GetTransactionTrends: Error from dashboardService.GetTransactionTrends")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch transaction trends.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, trends)
}

// GetInventoryTrends handles GET /api/dashboard/inventory-trends.
func (h *DashboardHandler) GetInventoryTrends(c *gin.Context) {
	trends, err := h.dashboardService.GetInventoryTrends()
	if err != nil {
		utils.LogError(err, "GetInventoryTrends: Error from dashboardService.GetInventoryTrends")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory trends.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, trends)
}

// GetTransactionStats handles GET /api/dashboard/transaction-stats.
func (h *DashboardHandler) GetTransactionStats(c *gin.Context) {
	stats, err := h.dashboardService.GetTransactionStats()
	if err != nil {
		utils.LogError(err, "GetTransactionStats: Error from dashboardService.GetTransactionStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch transaction statistics.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}
