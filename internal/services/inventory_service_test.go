package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/bigsparsh/inventraX/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newInventoryServiceWithMock(t *testing.T) (InventoryService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewInventoryService(
		repositories.NewProductRepository(db),
		repositories.NewTransactionRepository(db),
		repositories.NewInventoryLogRepository(db),
		repositories.NewUserRepository(db),
		db,
	), mock
}

func expectUserLookup(mock sqlmock.Sqlmock, userID string) {
	mock.ExpectQuery(`FROM Users u`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email", "password", "dob", "image", "role", "role_id"}).
			AddRow(userID, "Alice", "alice@example.com", nil, time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), nil, "STAFF", "rm-1"))
}

func transactionColumns() []string {
	return []string{"transaction_id", "user_id", "product_id", "check_in_time", "check_out_time", "current_status"}
}

func TestCheckInIncrementsQuantityAndLogsOnce(t *testing.T) {
	svc, mock := newInventoryServiceWithMock(t)

	expectUserLookup(mock, "user-1")
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT quantity FROM Products WHERE product_id = $1 FOR UPDATE`)).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(5))
	mock.ExpectQuery(`INSERT INTO Transactions`).
		WithArgs("user-1", "prod-1", "IN").
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow("txn-1", "user-1", "prod-1", time.Now(), nil, "IN"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE Products SET quantity = $1 WHERE product_id = $2`)).
		WithArgs(6, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO InventoryLogs`).
		WithArgs("prod-1", 5, 6, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"log_id", "changed_at"}).AddRow("log-1", time.Now()))
	mock.ExpectCommit()

	result, err := svc.CheckIn("prod-1", "user-1")
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if result.OldQuantity != 5 || result.NewQuantity != 6 {
		t.Errorf("Expected quantity 5 -> 6, got %d -> %d", result.OldQuantity, result.NewQuantity)
	}
	if result.Transaction == nil || result.Transaction.CurrentStatus != "IN" {
		t.Errorf("Expected an open IN transaction, got %+v", result.Transaction)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestCheckOutDecrementsQuantityAndClosesTransaction(t *testing.T) {
	svc, mock := newInventoryServiceWithMock(t)

	checkIn := time.Now().Add(-time.Hour)
	checkOut := time.Now()

	expectUserLookup(mock, "user-1")
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT quantity FROM Products WHERE product_id = $1 FOR UPDATE`)).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(6))
	mock.ExpectQuery(`UPDATE Transactions SET current_status`).
		WithArgs("OUT", "prod-1", "IN").
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow("txn-1", "user-1", "prod-1", checkIn, checkOut, "OUT"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE Products SET quantity = $1 WHERE product_id = $2`)).
		WithArgs(5, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO InventoryLogs`).
		WithArgs("prod-1", 6, 5, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"log_id", "changed_at"}).AddRow("log-2", time.Now()))
	mock.ExpectCommit()

	result, err := svc.CheckOut("prod-1", "user-1")
	if err != nil {
		t.Fatalf("CheckOut failed: %v", err)
	}
	if result.OldQuantity != 6 || result.NewQuantity != 5 {
		t.Errorf("Expected quantity 6 -> 5, got %d -> %d", result.OldQuantity, result.NewQuantity)
	}
	if result.Transaction.CheckOutTime == nil {
		t.Error("Expected the closed transaction to carry a check-out time")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestCheckOutWithoutOpenTransactionLeavesNoSideEffects(t *testing.T) {
	svc, mock := newInventoryServiceWithMock(t)

	expectUserLookup(mock, "user-1")
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT quantity FROM Products WHERE product_id = $1 FOR UPDATE`)).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(6))
	// No row matches the conditional close, so the workflow must abort.
	mock.ExpectQuery(`UPDATE Transactions SET current_status`).
		WithArgs("OUT", "prod-1", "IN").
		WillReturnRows(sqlmock.NewRows(transactionColumns()))
	mock.ExpectRollback()

	_, err := svc.CheckOut("prod-1", "user-1")
	if !errors.Is(err, ErrNoActiveCheckIn) {
		t.Fatalf("Expected ErrNoActiveCheckIn, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestCheckOutDepletedQuantityAborts(t *testing.T) {
	svc, mock := newInventoryServiceWithMock(t)

	expectUserLookup(mock, "user-1")
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT quantity FROM Products WHERE product_id = $1 FOR UPDATE`)).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(0))
	mock.ExpectQuery(`UPDATE Transactions SET current_status`).
		WithArgs("OUT", "prod-1", "IN").
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow("txn-1", "user-1", "prod-1", time.Now(), time.Now(), "OUT"))
	mock.ExpectRollback()

	_, err := svc.CheckOut("prod-1", "user-1")
	if !errors.Is(err, ErrQuantityDepleted) {
		t.Fatalf("Expected ErrQuantityDepleted, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestCheckInUnknownProduct(t *testing.T) {
	svc, mock := newInventoryServiceWithMock(t)

	expectUserLookup(mock, "user-1")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT quantity FROM Products`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}))
	mock.ExpectRollback()

	_, err := svc.CheckIn("missing", "user-1")
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestDeleteTransactionRemovesRecord(t *testing.T) {
	svc, mock := newInventoryServiceWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM Transactions WHERE transaction_id = $1`)).
		WithArgs("txn-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.DeleteTransaction("txn-1"); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestDeleteTransactionNotFound(t *testing.T) {
	svc, mock := newInventoryServiceWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM Transactions WHERE transaction_id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := svc.DeleteTransaction("missing"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestCheckInUnknownUser(t *testing.T) {
	svc, mock := newInventoryServiceWithMock(t)

	mock.ExpectQuery(`FROM Users u`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email", "password", "dob", "image", "role", "role_id"}))

	_, err := svc.CheckIn("prod-1", "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}
