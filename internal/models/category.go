package models

import (
	"time"
)

// Category classifies income and expense rows. Business logic resolves
// categories by the stable Kind enum; Name is display-only and safe to
// rename or translate. Rows with a NULL organization_id are seeded
// system defaults and cannot be deleted.
type Category struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID *uint     `gorm:"index" json:"organization_id,omitempty"`
	Name           string    `gorm:"not null" json:"name"`
	Kind           string    `gorm:"not null;index;default:other" json:"kind"`
	CategoryType   string    `gorm:"not null;index" json:"category_type"`
	ParentID       *uint     `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Parent *Category `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}

// Category kind constants (stable enum, never matched by display name)
const (
	CategoryKindRent            = "rent"
	CategoryKindAdvance         = "advance"
	CategoryKindSecondaryIncome = "secondary_income"
	CategoryKindRefund          = "refund"
	CategoryKindOther           = "other"
)

// Category type constants
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// IsDefault reports whether the category is a protected system default.
func (c *Category) IsDefault() bool {
	return c.OrganizationID == nil
}

// ValidCategoryKind reports whether k is one of the known kinds.
func ValidCategoryKind(k string) bool {
	switch k {
	case CategoryKindRent, CategoryKindAdvance, CategoryKindSecondaryIncome,
		CategoryKindRefund, CategoryKindOther:
		return true
	}
	return false
}

// DefaultCategories is the seed set every organization sees. Kind, not
// name, is what the aggregators key on.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Rent", Kind: CategoryKindRent, CategoryType: CategoryTypeIncome},
		{Name: "Advance", Kind: CategoryKindAdvance, CategoryType: CategoryTypeIncome},
		{Name: "Refund", Kind: CategoryKindRefund, CategoryType: CategoryTypeIncome},
		{Name: "Refund - Cancellation", Kind: CategoryKindRefund, CategoryType: CategoryTypeIncome},
		{Name: "Secondary Income", Kind: CategoryKindSecondaryIncome, CategoryType: CategoryTypeIncome},
		{Name: "Utilities", Kind: CategoryKindOther, CategoryType: CategoryTypeExpense},
		{Name: "Maintenance", Kind: CategoryKindOther, CategoryType: CategoryTypeExpense},
		{Name: "Salaries", Kind: CategoryKindOther, CategoryType: CategoryTypeExpense},
	}
}

// CategoryResponse is the JSON response format for categories
type CategoryResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	CategoryType string    `json:"category_type"`
	ParentID     *uint     `json:"parent_id,omitempty"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse converts Category to CategoryResponse
func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Kind:         c.Kind,
		CategoryType: c.CategoryType,
		ParentID:     c.ParentID,
		IsDefault:    c.IsDefault(),
		CreatedAt:    c.CreatedAt,
	}
}
