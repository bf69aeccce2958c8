package models

// DashboardStats holds the headline counts shown on the dashboard.
type DashboardStats struct {
	TotalProducts   int `json:"totalProducts"`
	TotalUsers      int `json:"totalUsers"`
	TotalCategories int `json:"totalCategories"`
	LowStockCount   int `json:"lowStockCount"`
}

// CategoryDistribution is the per-category product count for the pie chart.
type CategoryDistribution struct {
	CategoryName string `json:"category_name"`
	ProductCount int    `json:"product_count"`
}

// LowStockProduct is a product whose quantity is below the alert threshold.
type LowStockProduct struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	CategoryName *string `json:"category_name,omitempty"`
}

// TransactionTrend is one daily bucket of check-in/check-out counts.
type TransactionTrend struct {
	Day       string `json:"day"`
	CheckIns  int    `json:"check_ins"`
	CheckOuts int    `json:"check_outs"`
}

// InventoryTrend is one daily bucket of inventory increase/decrease events.
type InventoryTrend struct {
	Date         string `json:"date"`
	TotalChanges int    `json:"total_changes"`
	Increases    int    `json:"increases"`
	Decreases    int    `json:"decreases"`
}

// TransactionStats summarizes the transaction table by lifecycle state.
type TransactionStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}
