package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bigsparsh/inventraX/internal/models"
)

// DefaultLowStockThreshold is the quantity threshold baked into the
// low_stock_alert database view.
const DefaultLowStockThreshold = 10

// DashboardRepository defines read-only aggregate queries. All derivation is
// done by SQL aggregation, not application logic.
type DashboardRepository interface {
	GetStats() (*models.DashboardStats, error)
	GetCategoryDistribution() ([]models.CategoryDistribution, error)
	GetLowStockProducts(threshold int) ([]models.LowStockProduct, error)
	GetTransactionTrends() ([]models.TransactionTrend, error)
	GetInventoryTrends() ([]models.InventoryTrend, error)
}

type dashboardRepository struct {
	db SQLExecutor
}

// NewDashboardRepository creates a new instance of DashboardRepository.
func NewDashboardRepository(db SQLExecutor) DashboardRepository {
	return &dashboardRepository{db: db}
}

// GetStats reads the headline counts from the precomputed database views.
func (r *dashboardRepository) GetStats() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT total FROM total_products`, &stats.TotalProducts},
		{`SELECT total FROM total_users`, &stats.TotalUsers},
		{`SELECT total FROM total_categories`, &stats.TotalCategories},
		{`SELECT COUNT(*) FROM low_stock_alert`, &stats.LowStockCount},
	}
	for _, c := range counts {
		if err := r.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("%w: reading dashboard stats: %v", ErrDatabaseError, err)
		}
	}
	return stats, nil
}

// GetCategoryDistribution returns the product count per category, descending.
func (r *dashboardRepository) GetCategoryDistribution() ([]models.CategoryDistribution, error) {
	distribution := []models.CategoryDistribution{}
	query := `SELECT category_name, product_count::int
	          FROM product_categories_pie_chart
	          ORDER BY product_count DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying category distribution: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.CategoryDistribution
		if err := rows.Scan(&d.CategoryName, &d.ProductCount); err != nil {
			return nil, fmt.Errorf("%w: scanning category distribution: %v", ErrDatabaseError, err)
		}
		distribution = append(distribution, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category distribution rows: %v", ErrDatabaseError, err)
	}
	return distribution, nil
}

// GetLowStockProducts lists products under the given threshold, lowest
// quantity first. Thresholds at or below the view default take the
// precomputed low_stock_alert fast path; custom thresholds recompute with a
// parameterized query.
func (r *dashboardRepository) GetLowStockProducts(threshold int) ([]models.LowStockProduct, error) {
	var rows *sql.Rows
	var err error

	if threshold <= DefaultLowStockThreshold {
		query := `SELECT p.product_id, p.name, p.quantity, c.name AS category_name
		          FROM low_stock_alert p
		          LEFT JOIN Categories c ON p.category_id = c.category_id
		          WHERE p.quantity < $1
		          ORDER BY p.quantity ASC`
		rows, err = r.db.Query(query, threshold)
	} else {
		query := `SELECT p.product_id, p.name, p.quantity, c.name AS category_name
		          FROM Products p
		          LEFT JOIN Categories c ON p.category_id = c.category_id
		          WHERE p.quantity < $1
		          ORDER BY p.quantity ASC`
		rows, err = r.db.Query(query, threshold)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: querying low stock products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.LowStockProduct{}
	for rows.Next() {
		var p models.LowStockProduct
		var categoryName sql.NullString
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &categoryName); err != nil {
			return nil, fmt.Errorf("%w: scanning low stock product: %v", ErrDatabaseError, err)
		}
		if categoryName.Valid {
			p.CategoryName = &categoryName.String
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating low stock rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

// GetTransactionTrends buckets check-in/check-out counts by day over the
// trailing 7-day window, oldest bucket first, at most 7 buckets.
func (r *dashboardRepository) GetTransactionTrends() ([]models.TransactionTrend, error) {
	trends := []models.TransactionTrend{}
	query := `SELECT TO_CHAR(DATE(check_in_time), 'Day') AS day,
	                 COUNT(CASE WHEN current_status = 'IN' THEN 1 END)::int AS check_ins,
	                 COUNT(CASE WHEN current_status = 'OUT' THEN 1 END)::int AS check_outs
	          FROM Transactions
	          WHERE check_in_time >= CURRENT_DATE - INTERVAL '7 days'
	          GROUP BY DATE(check_in_time), TO_CHAR(DATE(check_in_time), 'Day')
	          ORDER BY DATE(check_in_time) ASC
	          LIMIT 7`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying transaction trends: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.TransactionTrend
		if err := rows.Scan(&t.Day, &t.CheckIns, &t.CheckOuts); err != nil {
			return nil, fmt.Errorf("%w: scanning transaction trend: %v", ErrDatabaseError, err)
		}
		t.Day = strings.TrimSpace(t.Day) // TO_CHAR pads day names to 9 chars
		trends = append(trends, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating transaction trend rows: %v", ErrDatabaseError, err)
	}
	return trends, nil
}

// GetInventoryTrends buckets inventory increase/decrease events by day over
// the trailing 30-day calendar window, oldest bucket first.
func (r *dashboardRepository) GetInventoryTrends() ([]models.InventoryTrend, error) {
	trends := []models.InventoryTrend{}
	query := `SELECT TO_CHAR(DATE(changed_at), 'Mon DD') AS date,
	                 COUNT(*)::int AS total_changes,
	                 COUNT(CASE WHEN new_quantity > old_quantity THEN 1 END)::int AS increases,
	                 COUNT(CASE WHEN new_quantity < old_quantity THEN 1 END)::int AS decreases
	          FROM InventoryLogs
	          WHERE changed_at >= CURRENT_DATE - INTERVAL '30 days'
	          GROUP BY DATE(changed_at)
	          ORDER BY DATE(changed_at) ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying inventory trends: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.InventoryTrend
		if err := rows.Scan(&t.Date, &t.TotalChanges, &t.Increases, &t.Decreases); err != nil {
			return nil, fmt.Errorf("%w: scanning inventory trend: %v", ErrDatabaseError, err)
		}
		trends = append(trends, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating inventory trend rows: %v", ErrDatabaseError, err)
	}
	return trends, nil
}
