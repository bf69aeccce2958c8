package services

import (
	"errors"
	"regexp"
	"testing"

	"github.com/bigsparsh/inventraX/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newStaffServiceWithMock(t *testing.T) (StaffService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewStaffService(repositories.NewUserRepository(db), db), mock
}

func TestFireStaffDeletesRoleMappingBeforeUser(t *testing.T) {
	svc, mock := newStaffServiceWithMock(t)

	// Ordered expectations: the role mapping row must go before the user row.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM RoleMapping WHERE user_id = $1`)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM Users WHERE user_id = $1`)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.FireStaff("user-1"); err != nil {
		t.Fatalf("FireStaff failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestFireStaffUnknownUserRollsBack(t *testing.T) {
	svc, mock := newStaffServiceWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM RoleMapping`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM Users`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := svc.FireStaff("missing"); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("Expected ErrStaffNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestPromoteStaffRejectsUnknownRole(t *testing.T) {
	svc, _ := newStaffServiceWithMock(t)

	if err := svc.PromoteStaff("user-1", "SUPERUSER"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Expected ErrInvalidRole, got %v", err)
	}
}

func TestUpdateStaffRejectsEmptyFieldSet(t *testing.T) {
	svc, _ := newStaffServiceWithMock(t)

	if _, err := svc.UpdateStaff("user-1", UpdateStaffRequest{}); !errors.Is(err, ErrStaffEmptyUpdate) {
		t.Errorf("Expected ErrStaffEmptyUpdate, got %v", err)
	}
}

func TestUpdateStaffValidatesEmailAndDob(t *testing.T) {
	svc, _ := newStaffServiceWithMock(t)

	badEmail := "not-an-email"
	if _, err := svc.UpdateStaff("user-1", UpdateStaffRequest{Email: &badEmail}); !errors.Is(err, ErrStaffValidation) {
		t.Errorf("Expected ErrStaffValidation for bad email, got %v", err)
	}

	badDob := "15/06/1985"
	if _, err := svc.UpdateStaff("user-1", UpdateStaffRequest{Dob: &badDob}); !errors.Is(err, ErrDobFormat) {
		t.Errorf("Expected ErrDobFormat for bad dob, got %v", err)
	}
}
