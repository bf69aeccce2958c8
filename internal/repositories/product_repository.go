package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bigsparsh/inventraX/internal/models"

	"github.com/lib/pq"
)

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	GetProducts() ([]models.Product, error)
	GetProductByID(id string) (*models.Product, error)
	CreateProduct(executor SQLExecutor, product *models.Product) (string, error)
	UpdateProduct(executor SQLExecutor, id string, upd ProductUpdate) error
	DeleteProduct(executor SQLExecutor, id string) error
	GetQuantityForUpdate(executor SQLExecutor, id string) (int, error)
	SetQuantity(executor SQLExecutor, id string, quantity int) error
}

// ProductUpdate is a partial field set for UPDATE. Only non-nil fields are
// written; omitted fields are left unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	CategoryID  *string
	Quantity    *int
	Image       *string
}

type productRepository struct {
	db SQLExecutor
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db SQLExecutor) ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(row interface{ Scan(...interface{}) error }, product *models.Product, withCategoryName bool) error {
	var description, categoryID, categoryName, image sql.NullString
	dest := []interface{}{&product.ProductID, &product.Name, &description, &categoryID}
	if withCategoryName {
		dest = append(dest, &categoryName)
	}
	dest = append(dest, &product.Quantity, &image)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if description.Valid {
		product.Description = &description.String
	}
	if categoryID.Valid {
		product.CategoryID = &categoryID.String
	}
	if categoryName.Valid {
		product.CategoryName = &categoryName.String
	}
	if image.Valid {
		product.Image = &image.String
	}
	return nil
}

// GetProducts retrieves all products with their category names, ordered by name.
func (r *productRepository) GetProducts() ([]models.Product, error) {
	products := []models.Product{}
	query := `SELECT p.product_id, p.name, p.description, p.category_id, c.name AS category_name, p.quantity, p.image
	          FROM Products p
	          LEFT JOIN Categories c ON p.category_id = c.category_id
	          ORDER BY p.name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product, true); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

// GetProductByID retrieves a product with its category name by ID.
func (r *productRepository) GetProductByID(id string) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT p.product_id, p.name, p.description, p.category_id, c.name AS category_name, p.quantity, p.image
	          FROM Products p
	          LEFT JOIN Categories c ON p.category_id = c.category_id
	          WHERE p.product_id = $1`

	err := scanProduct(r.db.QueryRow(query, id), product, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %s: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

// CreateProduct inserts a new product and returns its generated ID.
func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (string, error) {
	query := `INSERT INTO Products (name, description, category_id, quantity, image)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING product_id`

	err := executor.QueryRow(query,
		product.Name, product.Description, product.CategoryID, product.Quantity, product.Image,
	).Scan(&product.ProductID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return "", fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
			if pqErr.Code == "23503" { // foreign_key_violation on category_id
				return "", fmt.Errorf("%w: referenced category does not exist", ErrNotFound)
			}
		}
		return "", fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ProductID, nil
}

// UpdateProduct applies a partial field set to a product row. Supplying no
// fields returns ErrEmptyUpdate.
func (r *productRepository) UpdateProduct(executor SQLExecutor, id string, upd ProductUpdate) error {
	var assignments []string
	var args []interface{}
	argCount := 1

	if upd.Name != nil {
		assignments = append(assignments, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *upd.Name)
		argCount++
	}
	if upd.Description != nil {
		assignments = append(assignments, fmt.Sprintf("description = $%d", argCount))
		args = append(args, *upd.Description)
		argCount++
	}
	if upd.CategoryID != nil {
		assignments = append(assignments, fmt.Sprintf("category_id = $%d", argCount))
		args = append(args, *upd.CategoryID)
		argCount++
	}
	if upd.Quantity != nil {
		assignments = append(assignments, fmt.Sprintf("quantity = $%d", argCount))
		args = append(args, *upd.Quantity)
		argCount++
	}
	if upd.Image != nil {
		assignments = append(assignments, fmt.Sprintf("image = $%d", argCount))
		args = append(args, *upd.Image)
		argCount++
	}

	if len(assignments) == 0 {
		return ErrEmptyUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE Products SET %s WHERE product_id = $%d`, strings.Join(assignments, ", "), argCount)

	result, err := executor.Exec(query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: referenced category does not exist", ErrNotFound)
		}
		return fmt.Errorf("%w: updating product ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating product ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product from the database.
func (r *productRepository) DeleteProduct(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM Products WHERE product_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: product ID %s is referenced by transactions (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting product ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting product ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetQuantityForUpdate reads a product's quantity while taking a row-level
// lock. Must run inside a transaction: the lock serializes concurrent
// check-in/check-out on the same product.
func (r *productRepository) GetQuantityForUpdate(executor SQLExecutor, id string) (int, error) {
	var quantity int
	err := executor.QueryRow(`SELECT quantity FROM Products WHERE product_id = $1 FOR UPDATE`, id).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: locking product ID %s: %v", ErrDatabaseError, id, err)
	}
	return quantity, nil
}

// SetQuantity writes a product's quantity. Callers hold the row lock taken by
// GetQuantityForUpdate.
func (r *productRepository) SetQuantity(executor SQLExecutor, id string, quantity int) error {
	result, err := executor.Exec(`UPDATE Products SET quantity = $1 WHERE product_id = $2`, quantity, id)
	if err != nil {
		return fmt.Errorf("%w: setting quantity for product ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for setting quantity on product ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
