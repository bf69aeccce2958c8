package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bigsparsh/inventraX/internal/models"
	"github.com/bigsparsh/inventraX/internal/repositories"
)

// --- Custom Service Errors for the Check-in/Check-out Workflow ---
var (
	// ErrNoActiveCheckIn is a state conflict, retryable by the caller after a
	// check-in, never fatal to the process.
	ErrNoActiveCheckIn = errors.New("no active check-in found for this product")
	// ErrQuantityDepleted guards the non-negative quantity invariant when an
	// admin edit raced the workflow.
	ErrQuantityDepleted    = errors.New("product quantity is already zero")
	ErrLogNotFound         = errors.New("inventory log not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// CheckResult reports the outcome of one workflow step: the affected
// transaction and the quantity change recorded in the audit trail.
type CheckResult struct {
	Transaction *models.Transaction `json:"transaction"`
	OldQuantity int                 `json:"old_quantity"`
	NewQuantity int                 `json:"new_quantity"`
}

// --- InventoryService Interface ---
type InventoryService interface {
	CheckIn(productID, userID string) (*CheckResult, error)
	CheckOut(productID, userID string) (*CheckResult, error)
	GetTransactions(limit int) ([]models.Transaction, error)
	DeleteTransaction(transactionID string) error
	DeleteLog(logID string) error
}

// --- inventoryService Implementation ---
type inventoryService struct {
	productRepo     repositories.ProductRepository
	transactionRepo repositories.TransactionRepository
	logRepo         repositories.InventoryLogRepository
	userRepo        repositories.UserRepository
	db              *sql.DB // For managing transactions
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(
	pr repositories.ProductRepository,
	tr repositories.TransactionRepository,
	lr repositories.InventoryLogRepository,
	ur repositories.UserRepository,
	db *sql.DB,
) InventoryService {
	return &inventoryService{
		productRepo:     pr,
		transactionRepo: tr,
		logRepo:         lr,
		userRepo:        ur,
		db:              db,
	}
}

// CheckIn opens a new IN transaction for the product, increments its quantity
// and appends one audit row. All three mutations run in a single database
// transaction; the product row lock serializes concurrent workflow calls on
// the same product.
func (s *inventoryService) CheckIn(productID, userID string) (*CheckResult, error) {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	oldQuantity, err := s.productRepo.GetQuantityForUpdate(tx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	txn, err := s.transactionRepo.CreateCheckIn(tx, productID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create check-in transaction: %w", err)
	}

	newQuantity := oldQuantity + 1
	if err := s.productRepo.SetQuantity(tx, productID, newQuantity); err != nil {
		return nil, fmt.Errorf("failed to increment quantity: %w", err)
	}

	logEntry := models.InventoryLog{
		ProductID:   productID,
		OldQuantity: oldQuantity,
		NewQuantity: newQuantity,
		ChangedBy:   userID,
	}
	if _, err := s.logRepo.CreateLog(tx, &logEntry); err != nil {
		return nil, fmt.Errorf("failed to append inventory log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit check-in: %w", err)
	}

	return &CheckResult{Transaction: txn, OldQuantity: oldQuantity, NewQuantity: newQuantity}, nil
}

// CheckOut closes the most recent open transaction for the product,
// decrements its quantity and appends one audit row. When no open transaction
// exists the call fails with ErrNoActiveCheckIn and leaves no side effects:
// the enclosing database transaction is rolled back.
func (s *inventoryService) CheckOut(productID, userID string) (*CheckResult, error) {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the product row first so two concurrent check-outs cannot both
	// observe the same open transaction.
	oldQuantity, err := s.productRepo.GetQuantityForUpdate(tx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	txn, err := s.transactionRepo.CloseLatestOpen(tx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoActiveCheckIn
		}
		return nil, fmt.Errorf("failed to close open transaction: %w", err)
	}

	if oldQuantity <= 0 {
		return nil, ErrQuantityDepleted
	}
	newQuantity := oldQuantity - 1
	if err := s.productRepo.SetQuantity(tx, productID, newQuantity); err != nil {
		return nil, fmt.Errorf("failed to decrement quantity: %w", err)
	}

	logEntry := models.InventoryLog{
		ProductID:   productID,
		OldQuantity: oldQuantity,
		NewQuantity: newQuantity,
		ChangedBy:   userID,
	}
	if _, err := s.logRepo.CreateLog(tx, &logEntry); err != nil {
		return nil, fmt.Errorf("failed to append inventory log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit check-out: %w", err)
	}

	return &CheckResult{Transaction: txn, OldQuantity: oldQuantity, NewQuantity: newQuantity}, nil
}

// GetTransactions lists transactions with joined names, most recent first.
func (s *inventoryService) GetTransactions(limit int) ([]models.Transaction, error) {
	transactions, err := s.transactionRepo.GetTransactions(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return transactions, nil
}

// DeleteTransaction removes a transaction record. Route-level authorization
// restricts this to administrators.
func (s *inventoryService) DeleteTransaction(transactionID string) error {
	if err := s.transactionRepo.DeleteTransaction(s.db, transactionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// DeleteLog removes an audit row. Route-level authorization restricts this to
// administrators.
func (s *inventoryService) DeleteLog(logID string) error {
	if err := s.logRepo.DeleteLog(s.db, logID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLogNotFound
		}
		return fmt.Errorf("failed to delete inventory log: %w", err)
	}
	return nil
}
