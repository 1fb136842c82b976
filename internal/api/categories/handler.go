package categories

import (
	"context"
	"errors"
	"net/http"

	"artmarket-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

// ErrNotFound is returned by a Store when no category matches.
var ErrNotFound = errors.New("category not found")

// Store is the persistence surface of the category handlers.
type Store interface {
	List(ctx context.Context) ([]catalog.Category, error)
	ByID(ctx context.Context, id string) (*catalog.Category, error)
	Create(ctx context.Context, category *catalog.Category) error
	Update(ctx context.Context, category *catalog.Category, updates map[string]interface{}) error
	Delete(ctx context.Context, category *catalog.Category) error
	ArtworkCount(ctx context.Context, categoryID uint) (int64, error)
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetCategoryByID(c *gin.Context) {
	category, ok := h.loadCategory(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := catalog.Category{Name: input.Name, Description: input.Description}
	if err := h.store.Create(c.Request.Context(), &category); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category name already exists"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	category, ok := h.loadCategory(c)
	if !ok {
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil && *input.Name != "" {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) > 0 {
		if err := h.store.Update(c.Request.Context(), category, updates); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to update category"})
			return
		}
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory refuses to delete a category that any artwork still
// references.
func (h *Handler) DeleteCategory(c *gin.Context) {
	category, ok := h.loadCategory(c)
	if !ok {
		return
	}

	count, err := h.store.ArtworkCount(c.Request.Context(), category.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check category usage"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category still has artworks"})
		return
	}

	if err := h.store.Delete(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (h *Handler) loadCategory(c *gin.Context) (*catalog.Category, bool) {
	category, err := h.store.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
		}
		return nil, false
	}
	return category, true
}
