package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hallbook/hallbook-api/internal/middleware"
	"github.com/hallbook/hallbook-api/internal/services"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type CategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Kind         string `json:"kind"`
	CategoryType string `json:"category_type"`
	ParentID     *uint  `json:"parent_id"`
}

// Create stores an organization category.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := BindNestedOrFlat(c, "category", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), middleware.GetOrganizationID(c), services.CategoryInput{
		Name:         req.Name,
		Kind:         req.Kind,
		CategoryType: req.CategoryType,
		ParentID:     req.ParentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category.ToResponse())
}

// Index lists categories, optionally filtered by type.
func (h *CategoryHandler) Index(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context(), middleware.GetOrganizationID(c), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(categories))
	for i := range categories {
		responses = append(responses, categories[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"categories": responses})
}

// Update renames an organization category.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req CategoryRequest
	if err := BindNestedOrFlat(c, "category", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), middleware.GetOrganizationID(c), id, services.CategoryInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category.ToResponse())
}

// Delete removes an organization category. Seeded defaults are
// protected and answer 403.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), middleware.GetOrganizationID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
