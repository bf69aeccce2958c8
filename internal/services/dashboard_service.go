package services

import (
	"fmt"

	"github.com/bigsparsh/inventraX/internal/models"
	"github.com/bigsparsh/inventraX/internal/repositories"
)

const (
	// DefaultRecentLimit bounds recent-activity listings when the caller
	// supplies no limit.
	DefaultRecentLimit = 10
	// MaxRecentLimit caps caller-supplied limits.
	MaxRecentLimit = 100
)

// --- DashboardService Interface ---
type DashboardService interface {
	GetStats() (*models.DashboardStats, error)
	GetCategoryDistribution() ([]models.CategoryDistribution, error)
	GetLowStockProducts(threshold int) ([]models.LowStockProduct, error)
	GetRecentTransactions(limit int) ([]models.Transaction, error)
	GetRecentLogs(limit int) ([]models.InventoryLog, error)
	GetTransactionTrends() ([]models.TransactionTrend, error)
	GetInventoryTrends() ([]models.InventoryTrend, error)
	GetTransactionStats() (*models.TransactionStats, error)
}

// --- dashboardService Implementation ---
type dashboardService struct {
	dashboardRepo   repositories.DashboardRepository
	transactionRepo repositories.TransactionRepository
	logRepo         repositories.InventoryLogRepository
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(
	dr repositories.DashboardRepository,
	tr repositories.TransactionRepository,
	lr repositories.InventoryLogRepository,
) DashboardService {
	return &dashboardService{
		dashboardRepo:   dr,
		transactionRepo: tr,
		logRepo:         lr,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		return MaxRecentLimit
	}
	return limit
}

func (s *dashboardService) GetStats() (*models.DashboardStats, error) {
	stats, err := s.dashboardRepo.GetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard statistics: %w", err)
	}
	return stats, nil
}

func (s *dashboardService) GetCategoryDistribution() ([]models.CategoryDistribution, error) {
	distribution, err := s.dashboardRepo.GetCategoryDistribution()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category distribution: %w", err)
	}
	return distribution, nil
}

func (s *dashboardService) GetLowStockProducts(threshold int) ([]models.LowStockProduct, error) {
	if threshold <= 0 {
		threshold = repositories.DefaultLowStockThreshold
	}
	products, err := s.dashboardRepo.GetLowStockProducts(threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}
	return products, nil
}

func (s *dashboardService) GetRecentTransactions(limit int) ([]models.Transaction, error) {
	transactions, err := s.transactionRepo.GetTransactions(clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent transactions: %w", err)
	}
	return transactions, nil
}

func (s *dashboardService) GetRecentLogs(limit int) ([]models.InventoryLog, error) {
	logs, err := s.logRepo.GetRecentLogs(clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent inventory logs: %w", err)
	}
	return logs, nil
}

func (s *dashboardService) GetTransactionTrends() ([]models.TransactionTrend, error) {
	trends, err := s.dashboardRepo.GetTransactionTrends()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction trends: %w", err)
	}
	return trends, nil
}

func (s *dashboardService) GetInventoryTrends() ([]models.InventoryTrend, error) {
	trends, err := s.dashboardRepo.GetInventoryTrends()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory trends: %w", err)
	}
	return trends, nil
}

func (s *dashboardService) GetTransactionStats() (*models.TransactionStats, error) {
	stats, err := s.transactionRepo.GetTransactionStats()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction statistics: %w", err)
	}
	return stats, nil
}
