package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
	"github.com/hallbook/hallbook-api/internal/repository"
)

// CategoryService owns income and expense categories. Organizations may
// add their own; the seeded defaults the aggregators key on can never
// be removed.
type CategoryService struct {
	repos *repository.Repositories
}

// NewCategoryService creates a new category service
func NewCategoryService(repos *repository.Repositories) *CategoryService {
	return &CategoryService{repos: repos}
}

// CategoryInput carries the editable fields of a category
type CategoryInput struct {
	Name         string
	Kind         string
	CategoryType string
	ParentID     *uint
}

// Create validates and stores an organization category.
func (s *CategoryService) Create(ctx context.Context, orgID uint, input CategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	if input.CategoryType != models.CategoryTypeIncome && input.CategoryType != models.CategoryTypeExpense {
		return nil, NewValidationError("category_type", "must be income or expense")
	}
	kind := input.Kind
	if kind == "" {
		kind = models.CategoryKindOther
	}
	if !models.ValidCategoryKind(kind) {
		return nil, NewValidationError("kind", "unknown category kind")
	}
	if input.ParentID != nil {
		if _, err := s.findCategory(ctx, orgID, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		OrganizationID: &orgID,
		Name:           input.Name,
		Kind:           kind,
		CategoryType:   input.CategoryType,
		ParentID:       input.ParentID,
	}
	if err := s.repos.Category.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// List returns the organization's categories plus the seeded defaults,
// optionally filtered by type.
func (s *CategoryService) List(ctx context.Context, orgID uint, categoryType string) ([]models.Category, error) {
	return s.repos.Category.List(ctx, orgID, categoryType)
}

// Update renames an organization category. Defaults keep their names:
// displays may alias them, but the stored row is shared seed data.
func (s *CategoryService) Update(ctx context.Context, orgID, categoryID uint, input CategoryInput) (*models.Category, error) {
	category, err := s.findCategory(ctx, orgID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault() {
		return nil, ErrForbidden
	}
	if input.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	category.Name = input.Name
	if input.ParentID != nil {
		category.ParentID = input.ParentID
	}
	if err := s.repos.Category.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes an organization category. Seeded defaults never match
// the delete filter, so the zero-rows result maps to ErrForbidden and
// nothing is removed.
func (s *CategoryService) Delete(ctx context.Context, orgID, categoryID uint) error {
	if _, err := s.findCategory(ctx, orgID, categoryID); err != nil {
		return err
	}
	affected, err := s.repos.Category.Delete(ctx, orgID, categoryID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrForbidden
	}
	return nil
}

func (s *CategoryService) findCategory(ctx context.Context, orgID, categoryID uint) (*models.Category, error) {
	category, err := s.repos.Category.FindByID(ctx, orgID, categoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}
