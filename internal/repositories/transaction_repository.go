package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bigsparsh/inventraX/internal/models"
)

// TransactionRepository defines the interface for check-in/check-out
// transaction database operations.
type TransactionRepository interface {
	GetTransactions(limit int) ([]models.Transaction, error)
	CreateCheckIn(executor SQLExecutor, productID, userID string) (*models.Transaction, error)
	CloseLatestOpen(executor SQLExecutor, productID string) (*models.Transaction, error)
	DeleteTransaction(executor SQLExecutor, id string) error
	GetTransactionStats() (*models.TransactionStats, error)
}

type transactionRepository struct {
	db SQLExecutor
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db SQLExecutor) TransactionRepository {
	return &transactionRepository{db: db}
}

func scanTransaction(row interface{ Scan(...interface{}) error }, t *models.Transaction) error {
	var checkOut sql.NullTime
	if err := row.Scan(&t.TransactionID, &t.UserID, &t.ProductID, &t.CheckInTime, &checkOut, &t.CurrentStatus); err != nil {
		return err
	}
	if checkOut.Valid {
		t.CheckOutTime = &checkOut.Time
	}
	return nil
}

// GetTransactions retrieves transactions with user and product names, most
// recent check-in first, bounded by limit (0 means no bound).
func (r *transactionRepository) GetTransactions(limit int) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	query := `SELECT t.transaction_id, t.user_id, t.product_id, t.check_in_time, t.check_out_time, t.current_status,
	                 u.name AS user_name, p.name AS product_name
	          FROM Transactions t
	          LEFT JOIN Users u ON t.user_id = u.user_id
	          LEFT JOIN Products p ON t.product_id = p.product_id
	          ORDER BY t.check_in_time DESC`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(query+` LIMIT $1`, limit)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: querying transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Transaction
		var checkOut sql.NullTime
		var userName, productName sql.NullString
		if err := rows.Scan(&t.TransactionID, &t.UserID, &t.ProductID, &t.CheckInTime, &checkOut, &t.CurrentStatus, &userName, &productName); err != nil {
			return nil, fmt.Errorf("%w: scanning transaction: %v", ErrDatabaseError, err)
		}
		if checkOut.Valid {
			t.CheckOutTime = &checkOut.Time
		}
		if userName.Valid {
			t.UserName = &userName.String
		}
		if productName.Valid {
			t.ProductName = &productName.String
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating transaction rows: %v", ErrDatabaseError, err)
	}
	return transactions, nil
}

// CreateCheckIn opens a new transaction for a product in state IN.
func (r *transactionRepository) CreateCheckIn(executor SQLExecutor, productID, userID string) (*models.Transaction, error) {
	t := &models.Transaction{}
	query := `INSERT INTO Transactions (user_id, product_id, check_in_time, current_status)
	          VALUES ($1, $2, NOW(), $3)
	          RETURNING transaction_id, user_id, product_id, check_in_time, check_out_time, current_status`

	err := scanTransaction(executor.QueryRow(query, userID, productID, models.StatusIn), t)
	if err != nil {
		return nil, fmt.Errorf("%w: creating check-in for product %s: %v", ErrDatabaseError, productID, err)
	}
	return t, nil
}

// CloseLatestOpen transitions the most recent open (IN) transaction for a
// product to OUT in a single conditional statement. The current_status guard
// on the outer UPDATE keeps the read-then-write race closed; callers hold the
// product row lock so concurrent check-outs serialize before reaching here.
// Returns ErrNotFound when the product has no open transaction.
func (r *transactionRepository) CloseLatestOpen(executor SQLExecutor, productID string) (*models.Transaction, error) {
	t := &models.Transaction{}
	query := `UPDATE Transactions SET current_status = $1, check_out_time = NOW()
	          WHERE transaction_id = (
	              SELECT transaction_id FROM Transactions
	              WHERE product_id = $2 AND current_status = $3
	              ORDER BY check_in_time DESC
	              LIMIT 1
	          ) AND current_status = $3
	          RETURNING transaction_id, user_id, product_id, check_in_time, check_out_time, current_status`

	err := scanTransaction(executor.QueryRow(query, models.StatusOut, productID, models.StatusIn), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: closing open transaction for product %s: %v", ErrDatabaseError, productID, err)
	}
	return t, nil
}

// DeleteTransaction removes a transaction by ID. Quantities and audit rows are
// left untouched; this is a record correction, not a reversal of the workflow.
func (r *transactionRepository) DeleteTransaction(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM Transactions WHERE transaction_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting transaction ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting transaction ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTransactionStats counts transactions by lifecycle state.
func (r *transactionRepository) GetTransactionStats() (*models.TransactionStats, error) {
	stats := &models.TransactionStats{}
	query := `SELECT COUNT(*),
	                 COUNT(CASE WHEN current_status = 'IN' THEN 1 END),
	                 COUNT(CASE WHEN current_status = 'OUT' THEN 1 END)
	          FROM Transactions`

	if err := r.db.QueryRow(query).Scan(&stats.Total, &stats.Active, &stats.Completed); err != nil {
		return nil, fmt.Errorf("%w: counting transactions: %v", ErrDatabaseError, err)
	}
	return stats, nil
}
