package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bigsparsh/inventraX/internal/models"

	"github.com/lib/pq"
)

// CategoryRepository defines the interface for category-related database operations.
type CategoryRepository interface {
	GetCategories() ([]models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	CreateCategory(executor SQLExecutor, category *models.Category) (string, error)
	UpdateCategory(executor SQLExecutor, id string, upd CategoryUpdate) error
	DeleteCategory(executor SQLExecutor, id string) error
}

// CategoryUpdate is a partial field set for UPDATE.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

type categoryRepository struct {
	db SQLExecutor
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db SQLExecutor) CategoryRepository {
	return &categoryRepository{db: db}
}

// GetCategories retrieves all categories with their product counts, ordered by name.
func (r *categoryRepository) GetCategories() ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT c.category_id, c.name, c.description, c.created_at, COUNT(p.product_id) AS product_count
	          FROM Categories c
	          LEFT JOIN Products p ON c.category_id = p.category_id
	          GROUP BY c.category_id
	          ORDER BY c.name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category models.Category
		var description sql.NullString
		var productCount int64
		if err := rows.Scan(&category.CategoryID, &category.Name, &description, &category.CreatedAt, &productCount); err != nil {
			return nil, fmt.Errorf("%w: scanning category: %v", ErrDatabaseError, err)
		}
		if description.Valid {
			category.Description = &description.String
		}
		category.ProductCount = &productCount
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category rows: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by its ID.
func (r *categoryRepository) GetCategoryByID(id string) (*models.Category, error) {
	category := &models.Category{}
	var description sql.NullString
	query := `SELECT category_id, name, description, created_at FROM Categories WHERE category_id = $1`

	err := r.db.QueryRow(query, id).Scan(&category.CategoryID, &category.Name, &description, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category by ID %s: %v", ErrDatabaseError, id, err)
	}
	if description.Valid {
		category.Description = &description.String
	}
	return category, nil
}

// CreateCategory inserts a new category into the database.
func (r *categoryRepository) CreateCategory(executor SQLExecutor, category *models.Category) (string, error) {
	query := `INSERT INTO Categories (name, description)
	          VALUES ($1, $2)
	          RETURNING category_id, created_at`

	err := executor.QueryRow(query, category.Name, category.Description).Scan(&category.CategoryID, &category.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return "", fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return "", fmt.Errorf("%w: creating category: %v", ErrDatabaseError, err)
	}
	return category.CategoryID, nil
}

// UpdateCategory applies a partial field set to a category row.
func (r *categoryRepository) UpdateCategory(executor SQLExecutor, id string, upd CategoryUpdate) error {
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

	if len(assignments) == 0 {
		return ErrEmptyUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE Categories SET %s WHERE category_id = $%d`, strings.Join(assignments, ", "), argCount)

	result, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating category ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating category ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category from the database. The delete fails with
// ErrForeignKeyViolation while products still reference the category.
func (r *categoryRepository) DeleteCategory(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM Categories WHERE category_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: category ID %s is referenced by products (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting category ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting category ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
