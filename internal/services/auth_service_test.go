package services

import (
	"errors"
	"testing"
	"time"

	"github.com/bigsparsh/inventraX/internal/repositories"
	"github.com/bigsparsh/inventraX/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

func newAuthServiceWithMock(t *testing.T) (AuthService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	utils.InitJWT("test-secret")
	return NewAuthService(repositories.NewUserRepository(db), db), mock
}

func userRowColumns() []string {
	return []string{"user_id", "name", "email", "password", "dob", "image", "role", "role_id"}
}

func TestLoginUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	svc, mock := newAuthServiceWithMock(t)

	// Unknown email: the user row does not exist.
	mock.ExpectQuery(`FROM Users u`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns()))
	_, unknownErr := svc.Login(LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	// Known email, wrong password.
	mock.ExpectQuery(`FROM Users u`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns()).
			AddRow("user-1", "Alice", "alice@example.com", string(hashBytes), time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), nil, "ADMIN", "rm-1"))
	_, wrongErr := svc.Login(LoginRequest{Email: "alice@example.com", Password: "wrong-password"})

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("Error messages must match to prevent account enumeration: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginWithoutRoleAssigned(t *testing.T) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectQuery(`FROM Users u`).
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns()).
			AddRow("user-2", "Bob", "bob@example.com", string(hashBytes), time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC), nil, nil, nil))

	_, err = svc.Login(LoginRequest{Email: "bob@example.com", Password: "correct-password"})
	if !errors.Is(err, ErrNoRoleAssigned) {
		t.Errorf("Expected ErrNoRoleAssigned, got %v", err)
	}
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectQuery(`FROM Users u`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns()).
			AddRow("user-1", "Alice", "alice@example.com", string(hashBytes), time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), nil, "ADMIN", "rm-1"))

	resp, err := svc.Login(LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("Expected a non-empty token")
	}
	if resp.User.PasswordHash != nil {
		t.Error("Password hash must be cleared from the response")
	}

	claims, err := utils.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("Issued token failed validation: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "ADMIN" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthServiceWithMock(t)

	cases := []struct {
		name string
		req  RegisterRequest
		want error
	}{
		{"bad email", RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret1", Dob: "1990-01-02"}, ErrAuthValidation},
		{"short password", RegisterRequest{Name: "A", Email: "a@example.com", Password: "abc", Dob: "1990-01-02"}, ErrAuthValidation},
		{"bad dob", RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1", Dob: "02/01/1990"}, ErrDobFormat},
		{"bad role", RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1", Dob: "1990-01-02", Role: "ROOT"}, ErrInvalidRole},
	}

	for _, c := range cases {
		if _, err := svc.Register(c.req); !errors.Is(err, c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Register(RegisterRequest{Name: "A", Email: "taken@example.com", Password: "secret1", Dob: "1990-01-02"})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterWrapsUserAndRoleInOneTransaction(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO Users`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-9"))
	mock.ExpectExec(`INSERT INTO RoleMapping`).
		WithArgs("user-9", "STAFF").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := svc.Register(RegisterRequest{Name: "New", Email: "new@example.com", Password: "secret1", Dob: "1990-01-02"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.User.Role == nil || string(*resp.User.Role) != "STAFF" {
		t.Errorf("Expected default STAFF role, got %v", resp.User.Role)
	}
	if resp.Token == "" {
		t.Error("Expected a non-empty token")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRegisterRoleFailureRollsBackUserInsert(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO Users`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-9"))
	mock.ExpectExec(`INSERT INTO RoleMapping`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if _, err := svc.Register(RegisterRequest{Name: "New", Email: "new@example.com", Password: "secret1", Dob: "1990-01-02"}); err == nil {
		t.Fatal("Expected registration to fail when role assignment fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
