package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bigsparsh/inventraX/internal/models"
	"github.com/bigsparsh/inventraX/internal/repositories"
	"github.com/bigsparsh/inventraX/pkg/utils"
)

// --- Custom Service Errors for Staff ---
var (
	ErrStaffNotFound    = errors.New("staff member not found")
	ErrStaffValidation  = errors.New("staff data validation error")
	ErrStaffEmptyUpdate = errors.New("no fields supplied to update")
	ErrStaffReferenced  = errors.New("staff member is referenced by transactions or logs")
)

// --- Staff DTOs ---

type CreateStaffRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email" binding:"required"`
	Dob   string  `json:"dob" binding:"required"`
	Role  string  `json:"role" binding:"required"`
	Image *string `json:"image"`
}

type UpdateStaffRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Dob   *string `json:"dob"`
	Image *string `json:"image"`
}

// --- StaffService Interface ---
type StaffService interface {
	GetStaff() ([]models.User, error)
	CreateStaff(req CreateStaffRequest) (*models.User, error)
	UpdateStaff(userID string, req UpdateStaffRequest) (*models.User, error)
	PromoteStaff(userID string, role string) error
	FireStaff(userID string) error
}

// --- staffService Implementation ---
type staffService struct {
	userRepo repositories.UserRepository
	db       *sql.DB // For managing transactions
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(userRepo repositories.UserRepository, db *sql.DB) StaffService {
	return &staffService{
		userRepo: userRepo,
		db:       db,
	}
}

// GetStaff lists all users with their roles.
func (s *staffService) GetStaff() ([]models.User, error) {
	users, err := s.userRepo.GetUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff members: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = nil
	}
	return users, nil
}

// CreateStaff adds a staff member without credentials: the user row plus their
// role mapping, in one transaction. The account has no password until an
// administrator sets one up.
func (s *staffService) CreateStaff(req CreateStaffRequest) (*models.User, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrStaffValidation)
	}
	if !models.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}
	dob, err := parseDob(req.Dob)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:  req.Name,
		Email: req.Email,
		Dob:   dob,
		Image: req.Image,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	userID, err := s.userRepo.CreateUser(tx, &user, nil)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	if err := s.userRepo.AssignRole(tx, userID, models.Role(req.Role)); err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit staff creation: %w", err)
	}

	created, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("staff member created but failed to retrieve details: %w", err)
	}
	created.PasswordHash = nil
	return created, nil
}

// UpdateStaff applies a partial update to a staff member's profile. The role
// is changed through PromoteStaff, never here.
func (s *staffService) UpdateStaff(userID string, req UpdateStaffRequest) (*models.User, error) {
	if req.Email != nil && !utils.IsValidEmail(*req.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrStaffValidation)
	}
	if req.Dob != nil {
		if _, err := parseDob(*req.Dob); err != nil {
			return nil, err
		}
	}

	upd := repositories.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Dob:   req.Dob,
		Image: req.Image,
	}
	if err := s.userRepo.UpdateUser(s.db, userID, upd); err != nil {
		if errors.Is(err, repositories.ErrEmptyUpdate) {
			return nil, ErrStaffEmptyUpdate
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}

	updated, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("staff member updated but failed to retrieve details: %w", err)
	}
	updated.PasswordHash = nil
	return updated, nil
}

// PromoteStaff changes a user's role. The new role is visible on the next
// lookup; outstanding tokens keep their old role claim until they expire.
func (s *staffService) PromoteStaff(userID string, role string) error {
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("failed to look up staff member: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.PromoteRole(tx, userID, models.Role(role)); err != nil {
		return fmt.Errorf("failed to promote staff member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit promotion: %w", err)
	}
	return nil
}

// FireStaff removes a user and their role mapping in one transaction. The
// role mapping goes first since no cascade is assumed.
func (s *staffService) FireStaff(userID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.DeleteRoleMapping(tx, userID); err != nil {
		return fmt.Errorf("failed to delete role mapping: %w", err)
	}
	if err := s.userRepo.DeleteUser(tx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrStaffReferenced
		}
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit staff removal: %w", err)
	}
	return nil
}
