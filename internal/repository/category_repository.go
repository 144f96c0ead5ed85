package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
)

// CategoryRepository defines the interface for category data access.
// Reads see both the organization's own categories and the seeded
// defaults (organization_id IS NULL); writes only ever touch org rows.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Category, error)
	FindByKind(ctx context.Context, orgID uint, kind, categoryType string) (*models.Category, error)
	List(ctx context.Context, orgID uint, categoryType string) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, orgID, id uint) (int64, error)
	SeedDefaults(ctx context.Context) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND (organization_id = ? OR organization_id IS NULL)", id, orgID).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByKind resolves the category for a stable kind, preferring an
// organization override over the seeded default.
func (r *categoryRepository) FindByKind(ctx context.Context, orgID uint, kind, categoryType string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("kind = ? AND category_type = ? AND (organization_id = ? OR organization_id IS NULL)",
			kind, categoryType, orgID).
		Order("organization_id ASC NULLS LAST").
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, orgID uint, categoryType string) ([]models.Category, error) {
	var categories []models.Category
	q := r.db.WithContext(ctx).
		Where("organization_id = ? OR organization_id IS NULL", orgID)
	if categoryType != "" {
		q = q.Where("category_type = ?", categoryType)
	}
	err := q.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes an organization-owned category and reports how many
// rows went away. Seeded defaults (organization_id IS NULL) never match
// the filter, so they survive any delete attempt.
func (r *categoryRepository) Delete(ctx context.Context, orgID, id uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&models.Category{})
	return res.RowsAffected, res.Error
}

// SeedDefaults inserts the protected default categories once.
func (r *categoryRepository) SeedDefaults(ctx context.Context) error {
	for _, c := range models.DefaultCategories() {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Category{}).
			Where("organization_id IS NULL AND name = ? AND category_type = ?", c.Name, c.CategoryType).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		c := c
		if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
			return err
		}
	}
	return nil
}
