package models

import "time"

// Transaction lifecycle states.
const (
	StatusIn  = "IN"
	StatusOut = "OUT"
)

// Category represents a row in Categories.
type Category struct {
	CategoryID   string    `json:"category_id" db:"category_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	ProductCount *int64    `json:"product_count,omitempty"` // Computed on list queries
}

// Product represents a row in Products. Quantity is never negative; it is
// mutated through the check-in/check-out workflow or direct admin edits.
type Product struct {
	ProductID    string  `json:"product_id" db:"product_id"`
	Name         string  `json:"name" db:"name"`
	Description  *string `json:"description,omitempty" db:"description"`
	CategoryID   *string `json:"category_id,omitempty" db:"category_id"`
	CategoryName *string `json:"category_name,omitempty"` // From Categories join
	Quantity     int     `json:"quantity" db:"quantity"`
	Image        *string `json:"image,omitempty" db:"image"`
}

// Transaction represents a row in Transactions: one check-in, optionally
// closed by a later check-out.
type Transaction struct {
	TransactionID string     `json:"transaction_id" db:"transaction_id"`
	UserID        string     `json:"user_id" db:"user_id"`
	ProductID     string     `json:"product_id" db:"product_id"`
	CheckInTime   time.Time  `json:"check_in_time" db:"check_in_time"`
	CheckOutTime  *time.Time `json:"check_out_time,omitempty" db:"check_out_time"`
	CurrentStatus string     `json:"current_status" db:"current_status"`
	UserName      *string    `json:"user_name,omitempty"`    // From Users join
	ProductName   *string    `json:"product_name,omitempty"` // From Products join
}

// InventoryLog represents a row in InventoryLogs. The table is append-only:
// one row per quantity mutation, never updated.
type InventoryLog struct {
	LogID         string    `json:"log_id" db:"log_id"`
	ProductID     string    `json:"product_id" db:"product_id"`
	OldQuantity   int       `json:"old_quantity" db:"old_quantity"`
	NewQuantity   int       `json:"new_quantity" db:"new_quantity"`
	ChangedBy     string    `json:"changed_by" db:"changed_by"`
	ChangedAt     time.Time `json:"changed_at" db:"changed_at"`
	ProductName   *string   `json:"product_name,omitempty"`    // From Products join
	ChangedByName *string   `json:"changed_by_name,omitempty"` // From Users join
}
