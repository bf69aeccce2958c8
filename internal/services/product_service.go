package services

import (
	"errors"
	"fmt"

	"github.com/bigsparsh/inventraX/internal/models"
	"github.com/bigsparsh/inventraX/internal/repositories"
	"github.com/bigsparsh/inventraX/pkg/utils"
)

// --- Custom Service Errors for Products ---
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductValidation  = errors.New("product validation error")
	ErrProductEmptyUpdate = errors.New("no fields supplied to update")
	ErrProductInUse       = errors.New("product cannot be deleted as it is referenced by transactions")
)

// --- Product DTOs ---

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	CategoryID  string  `json:"category_id" binding:"required"`
	Quantity    *int    `json:"quantity"`
	Image       *string `json:"image"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	Quantity    *int    `json:"quantity"`
	Image       *string `json:"image"`
}

// --- ProductService Interface ---
type ProductService interface {
	GetProducts() ([]models.Product, error)
	GetProductByID(id string) (*models.Product, error)
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	UpdateProduct(id string, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(id string) error
}

// --- productService Implementation ---
type productService struct {
	productRepo repositories.ProductRepository
	executor    repositories.SQLExecutor
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo repositories.ProductRepository, executor repositories.SQLExecutor) ProductService {
	return &productService{
		productRepo: productRepo,
		executor:    executor,
	}
}

func (s *productService) GetProducts() ([]models.Product, error) {
	products, err := s.productRepo.GetProducts()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *productService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func (s *productService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name is required", ErrProductValidation)
	}
	if utils.IsEmpty(req.CategoryID) {
		return nil, fmt.Errorf("%w: category_id is required", ErrProductValidation)
	}

	quantity := 0
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity cannot be negative", ErrProductValidation)
		}
		quantity = *req.Quantity
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  &req.CategoryID,
		Quantity:    quantity,
		Image:       req.Image,
	}
	if _, err := s.productRepo.CreateProduct(s.executor, &product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: category does not exist", ErrProductValidation)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Re-fetch to include the joined category name.
	return s.GetProductByID(product.ProductID)
}

func (s *productService) UpdateProduct(id string, req UpdateProductRequest) (*models.Product, error) {
	if req.Name != nil && utils.IsEmpty(*req.Name) {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrProductValidation)
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrProductValidation)
	}

	upd := repositories.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Quantity:    req.Quantity,
		Image:       req.Image,
	}
	if err := s.productRepo.UpdateProduct(s.executor, id, upd); err != nil {
		if errors.Is(err, repositories.ErrEmptyUpdate) {
			return nil, ErrProductEmptyUpdate
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProductByID(id)
}

func (s *productService) DeleteProduct(id string) error {
	if err := s.productRepo.DeleteProduct(s.executor, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrProductInUse
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
