package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bigsparsh/inventraX/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// UserRepository defines the interface for user and role-mapping database operations.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, passwordHash *string) (string, error)
	AssignRole(executor SQLExecutor, userID string, role models.Role) error
	PromoteRole(executor SQLExecutor, userID string, role models.Role) error
	DeleteRoleMapping(executor SQLExecutor, userID string) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
	GetUsers() ([]models.User, error)
	UpdateUser(executor SQLExecutor, id string, upd UserUpdate) error
	DeleteUser(executor SQLExecutor, id string) error
}

// UserUpdate is a partial field set for UPDATE. Only non-nil fields are
// written; omitted fields are left unchanged.
type UserUpdate struct {
	Name  *string
	Email *string
	Dob   *string
	Image *string
}

type userRepository struct {
	db SQLExecutor
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db SQLExecutor) UserRepository {
	return &userRepository{db: db}
}

const userWithRoleColumns = `u.user_id, u.name, u.email, u.password, u.dob, u.image, rm.role, rm.role_id`

func scanUserWithRole(row interface{ Scan(...interface{}) error }, user *models.User) error {
	var password, image, role, roleID sql.NullString
	if err := row.Scan(&user.UserID, &user.Name, &user.Email, &password, &user.Dob, &image, &role, &roleID); err != nil {
		return err
	}
	if password.Valid {
		user.PasswordHash = &password.String
	}
	if image.Valid {
		user.Image = &image.String
	}
	if role.Valid {
		r := models.Role(role.String)
		user.Role = &r
	}
	if roleID.Valid {
		user.RoleID = &roleID.String
	}
	return nil
}

// CreateUser inserts a new user into the database. The password hash may be
// nil for staff accounts created without credentials.
func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User, passwordHash *string) (string, error) {
	query := `INSERT INTO Users (name, email, password, dob, image)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING user_id`

	err := executor.QueryRow(query,
		user.Name, user.Email, passwordHash, user.Dob, user.Image,
	).Scan(&user.UserID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return "", fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return "", fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return user.UserID, nil
}

// AssignRole inserts the role mapping for a newly created user.
func (r *userRepository) AssignRole(executor SQLExecutor, userID string, role models.Role) error {
	query := `INSERT INTO RoleMapping (user_id, role) VALUES ($1, $2)`
	if _, err := executor.Exec(query, userID, string(role)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, pqErr.Message)
		}
		return fmt.Errorf("%w: assigning role for user %s: %v", ErrDatabaseError, userID, err)
	}
	return nil
}

// PromoteRole updates a user's role mapping, creating it when the user has no
// role yet. At most one role per user is maintained.
func (r *userRepository) PromoteRole(executor SQLExecutor, userID string, role models.Role) error {
	result, err := executor.Exec(`UPDATE RoleMapping SET role = $1 WHERE user_id = $2`, string(role), userID)
	if err != nil {
		return fmt.Errorf("%w: promoting user %s: %v", ErrDatabaseError, userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for promoting user %s: %v", ErrDatabaseError, userID, err)
	}
	if rowsAffected == 0 {
		return r.AssignRole(executor, userID, role)
	}
	return nil
}

// DeleteRoleMapping removes the role mapping for a user. Missing mappings are
// not an error: a user may legitimately have no role.
func (r *userRepository) DeleteRoleMapping(executor SQLExecutor, userID string) error {
	if _, err := executor.Exec(`DELETE FROM RoleMapping WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("%w: deleting role mapping for user %s: %v", ErrDatabaseError, userID, err)
	}
	return nil
}

// GetUserByID retrieves a user with their role by ID.
func (r *userRepository) GetUserByID(id string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userWithRoleColumns + `
	          FROM Users u
	          LEFT JOIN RoleMapping rm ON u.user_id = rm.user_id
	          WHERE u.user_id = $1`

	err := scanUserWithRole(r.db.QueryRow(query, id), user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by ID %s: %v", ErrDatabaseError, id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user with their role by email. The returned user
// carries the stored password hash for credential verification.
func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userWithRoleColumns + `
	          FROM Users u
	          LEFT JOIN RoleMapping rm ON u.user_id = rm.user_id
	          WHERE u.email = $1`

	err := scanUserWithRole(r.db.QueryRow(query, email), user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user by email: %v", ErrDatabaseError, err)
	}
	return user, nil
}

// EmailExists reports whether a user with the given email already exists.
func (r *userRepository) EmailExists(email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM Users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking email existence: %v", ErrDatabaseError, err)
	}
	return exists, nil
}

// GetUsers retrieves all users with their roles, ordered by name.
func (r *userRepository) GetUsers() ([]models.User, error) {
	users := []models.User{}
	query := `SELECT ` + userWithRoleColumns + `
	          FROM Users u
	          LEFT JOIN RoleMapping rm ON u.user_id = rm.user_id
	          ORDER BY u.name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		if err := scanUserWithRole(rows, &user); err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating user rows: %v", ErrDatabaseError, err)
	}
	return users, nil
}

// UpdateUser applies a partial field set to a user row. Supplying no fields
// returns ErrEmptyUpdate.
func (r *userRepository) UpdateUser(executor SQLExecutor, id string, upd UserUpdate) error {
	var assignments []string
	var args []interface{}
	argCount := 1

	if upd.Name != nil {
		assignments = append(assignments, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *upd.Name)
		argCount++
	}
	if upd.Email != nil {
		assignments = append(assignments, fmt.Sprintf("email = $%d", argCount))
		args = append(args, *upd.Email)
		argCount++
	}
	if upd.Dob != nil {
		assignments = append(assignments, fmt.Sprintf("dob = $%d", argCount))
		args = append(args, *upd.Dob)
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
	query := fmt.Sprintf(`UPDATE Users SET %s WHERE user_id = $%d`, strings.Join(assignments, ", "), argCount)

	result, err := executor.Exec(query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating user ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating user ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user row. The dependent RoleMapping row must be removed
// first (no cascade is assumed); callers run both inside one transaction.
func (r *userRepository) DeleteUser(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM Users WHERE user_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: user ID %s is referenced by other records (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting user ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting user ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
