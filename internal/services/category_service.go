package services

import (
	"errors"
	"fmt"

	"github.com/bigsparsh/inventraX/internal/models"
	"github.com/bigsparsh/inventraX/internal/repositories"
	"github.com/bigsparsh/inventraX/pkg/utils"
)

// --- Custom Service Errors for Categories ---
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryValidation  = errors.New("category validation error")
	ErrCategoryEmptyUpdate = errors.New("no fields supplied to update")
	ErrCategoryInUse       = errors.New("category cannot be deleted as it is referenced by products")
)

// --- Category DTOs ---

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// --- CategoryService Interface ---
type CategoryService interface {
	GetCategories() ([]models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	CreateCategory(req CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(id string, req UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(id string) error
}

// --- categoryService Implementation ---
type categoryService struct {
	categoryRepo repositories.CategoryRepository
	executor     repositories.SQLExecutor
}

// NewCategoryService creates a new instance of CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository, executor repositories.SQLExecutor) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		executor:     executor,
	}
}

func (s *categoryService) GetCategories() ([]models.Category, error) {
	categories, err := s.categoryRepo.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) GetCategoryByID(id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetCategoryByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	return category, nil
}

func (s *categoryService) CreateCategory(req CreateCategoryRequest) (*models.Category, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name is required", ErrCategoryValidation)
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if _, err := s.categoryRepo.CreateCategory(s.executor, &category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *categoryService) UpdateCategory(id string, req UpdateCategoryRequest) (*models.Category, error) {
	if req.Name != nil && utils.IsEmpty(*req.Name) {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrCategoryValidation)
	}

	upd := repositories.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.UpdateCategory(s.executor, id, upd); err != nil {
		if errors.Is(err, repositories.ErrEmptyUpdate) {
			return nil, ErrCategoryEmptyUpdate
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return s.categoryRepo.GetCategoryByID(id)
}

func (s *categoryService) DeleteCategory(id string) error {
	if err := s.categoryRepo.DeleteCategory(s.executor, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
