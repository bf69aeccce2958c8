package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bigsparsh/inventraX/internal/models"
	"github.com/bigsparsh/inventraX/internal/repositories"
	"github.com/bigsparsh/inventraX/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers unknown email, absent password, and wrong
	// password alike, so the login path cannot be used for enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNoRoleAssigned is deliberately distinguishable from bad credentials:
	// the client prompts the user to contact an administrator.
	ErrNoRoleAssigned  = errors.New("no role assigned")
	ErrEmailExists     = errors.New("user with this email already exists")
	ErrInvalidRole     = errors.New("invalid role, must be ADMIN, MANAGER or STAFF")
	ErrDobFormat       = errors.New("invalid date of birth format, please use YYYY-MM-DD")
	ErrAuthValidation  = errors.New("auth validation error")
	ErrTokenGeneration = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// RegisterRequest DTO
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Dob      string `json:"dob" binding:"required"`
	Role     string `json:"role"` // Optional, defaults to STAFF
}

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// --- AuthService Interface ---
type AuthService interface {
	Register(req RegisterRequest) (*AuthResponse, error)
	Login(req LoginRequest) (*AuthResponse, error)
	GetProfile(userID string) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	userRepo repositories.UserRepository
	db       *sql.DB // For managing transactions
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repositories.UserRepository, db *sql.DB) AuthService {
	return &authService{
		userRepo: userRepo,
		db:       db,
	}
}

func parseDob(dob string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return time.Time{}, ErrDobFormat
	}
	return parsed, nil
}

// Register creates a user together with their role mapping and returns a
// signed token. Both inserts run in one database transaction so a role-mapping
// failure rolls the user insert back.
func (s *authService) Register(req RegisterRequest) (*AuthResponse, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrAuthValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, 6) {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrAuthValidation)
	}

	dob, err := parseDob(req.Dob)
	if err != nil {
		return nil, err
	}

	role := models.RoleStaff
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			return nil, ErrInvalidRole
		}
		role = models.Role(req.Role)
	}

	exists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashedPassword := string(hashedPasswordBytes)

	user := models.User{
		Name:  req.Name,
		Email: req.Email,
		Dob:   dob,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	userID, err := s.userRepo.CreateUser(tx, &user, &hashedPassword)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if err := s.userRepo.AssignRole(tx, userID, role); err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	user.Role = &role
	token, err := utils.GenerateToken(userID, user.Email, string(role), user.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	user.PasswordHash = nil // Ensure hash is not returned
	return &AuthResponse{User: &user, Token: token}, nil
}

// Login verifies credentials and issues a token. Unknown email, missing
// password and wrong password all collapse into ErrInvalidCredentials.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		// err is bcrypt.ErrMismatchedHashAndPassword for wrong password
		return nil, ErrInvalidCredentials
	}

	if user.Role == nil {
		return nil, ErrNoRoleAssigned
	}

	token, err := utils.GenerateToken(user.UserID, user.Email, string(*user.Role), user.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	user.PasswordHash = nil // Clear password hash before returning user details
	return &AuthResponse{User: user, Token: token}, nil
}

// GetProfile fetches fresh user data for the token subject.
func (s *authService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	user.PasswordHash = nil // Ensure password hash is not exposed
	return user, nil
}
