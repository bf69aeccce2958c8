package repositories

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestGetProductByIDJoinsCategoryName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"product_id", "name", "description", "category_id", "category_name", "quantity", "image"}).
		AddRow("prod-1", "Widget", "A widget", "cat-1", "Electronics", 5, nil)
	mock.ExpectQuery(`FROM Products p\s+LEFT JOIN Categories c`).
		WithArgs("prod-1").
		WillReturnRows(rows)

	repo := NewProductRepository(db)
	product, err := repo.GetProductByID("prod-1")
	if err != nil {
		t.Fatalf("GetProductByID failed: %v", err)
	}
	if product.Name != "Widget" {
		t.Errorf("Expected name Widget, got %s", product.Name)
	}
	if product.Quantity != 5 {
		t.Errorf("Expected quantity 5, got %d", product.Quantity)
	}
	if product.CategoryName == nil || *product.CategoryName != "Electronics" {
		t.Errorf("Expected joined category name Electronics, got %v", product.CategoryName)
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM Products p`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "description", "category_id", "category_name", "quantity", "image"}))

	repo := NewProductRepository(db)
	if _, err := repo.GetProductByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProductBuildsPartialSetClause(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE Products SET name = $1, quantity = $2 WHERE product_id = $3`)).
		WithArgs("Gadget", 9, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewProductRepository(db)
	name, quantity := "Gadget", 9
	if err := repo.UpdateProduct(db, "prod-1", ProductUpdate{Name: &name, Quantity: &quantity}); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestUpdateProductRejectsEmptyFieldSet(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewProductRepository(db)
	if err := repo.UpdateProduct(db, "prod-1", ProductUpdate{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("Expected ErrEmptyUpdate, got %v", err)
	}
}

func TestDeleteProductBlockedByTransactions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM Products WHERE product_id = $1`)).
		WithArgs("prod-1").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "transactions_product_id_fkey"})

	repo := NewProductRepository(db)
	if err := repo.DeleteProduct(db, "prod-1"); !errors.Is(err, ErrForeignKeyViolation) {
		t.Errorf("Expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestGetQuantityForUpdateLocksRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT quantity FROM Products WHERE product_id = $1 FOR UPDATE`)).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(3))

	repo := NewProductRepository(db)
	quantity, err := repo.GetQuantityForUpdate(db, "prod-1")
	if err != nil {
		t.Fatalf("GetQuantityForUpdate failed: %v", err)
	}
	if quantity != 3 {
		t.Errorf("Expected quantity 3, got %d", quantity)
	}
}

func TestGetQuantityForUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT quantity FROM Products`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}))

	repo := NewProductRepository(db)
	if _, err := repo.GetQuantityForUpdate(db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
