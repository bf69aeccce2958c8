package repositories

import (
	"database/sql"
	"fmt"

	"github.com/bigsparsh/inventraX/internal/models"
)

// InventoryLogRepository defines the interface for the append-only inventory
// audit trail. Rows are never updated; deletion is an explicit admin action.
type InventoryLogRepository interface {
	CreateLog(executor SQLExecutor, log *models.InventoryLog) (string, error)
	GetRecentLogs(limit int) ([]models.InventoryLog, error)
	DeleteLog(executor SQLExecutor, id string) error
}

type inventoryLogRepository struct {
	db SQLExecutor
}

// NewInventoryLogRepository creates a new instance of InventoryLogRepository.
func NewInventoryLogRepository(db SQLExecutor) InventoryLogRepository {
	return &inventoryLogRepository{db: db}
}

// CreateLog appends one audit row recording a quantity mutation.
func (r *inventoryLogRepository) CreateLog(executor SQLExecutor, log *models.InventoryLog) (string, error) {
	query := `INSERT INTO InventoryLogs (product_id, old_quantity, new_quantity, changed_by)
	          VALUES ($1, $2, $3, $4)
	          RETURNING log_id, changed_at`

	err := executor.QueryRow(query,
		log.ProductID, log.OldQuantity, log.NewQuantity, log.ChangedBy,
	).Scan(&log.LogID, &log.ChangedAt)

	if err != nil {
		return "", fmt.Errorf("%w: creating inventory log: %v", ErrDatabaseError, err)
	}
	return log.LogID, nil
}

// GetRecentLogs retrieves the most recent audit rows with product and user
// names, bounded by limit.
func (r *inventoryLogRepository) GetRecentLogs(limit int) ([]models.InventoryLog, error) {
	logs := []models.InventoryLog{}
	query := `SELECT il.log_id, il.product_id, il.old_quantity, il.new_quantity, il.changed_by, il.changed_at,
	                 p.name AS product_name, u.name AS changed_by_name
	          FROM InventoryLogs il
	          LEFT JOIN Products p ON il.product_id = p.product_id
	          LEFT JOIN Users u ON il.changed_by = u.user_id
	          ORDER BY il.changed_at DESC
	          LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying inventory logs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var log models.InventoryLog
		var productName, changedByName sql.NullString
		if err := rows.Scan(&log.LogID, &log.ProductID, &log.OldQuantity, &log.NewQuantity, &log.ChangedBy, &log.ChangedAt, &productName, &changedByName); err != nil {
			return nil, fmt.Errorf("%w: scanning inventory log: %v", ErrDatabaseError, err)
		}
		if productName.Valid {
			log.ProductName = &productName.String
		}
		if changedByName.Valid {
			log.ChangedByName = &changedByName.String
		}
		logs = append(logs, log)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating inventory log rows: %v", ErrDatabaseError, err)
	}
	return logs, nil
}

// DeleteLog removes an audit row by ID.
func (r *inventoryLogRepository) DeleteLog(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM InventoryLogs WHERE log_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting inventory log ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting inventory log ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
