package artworks

import (
	"context"
	"errors"
	"net/http"

	"artmarket-app/database"
	"artmarket-app/internal/domain/catalog"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const soldSubquery = `EXISTS (SELECT 1 FROM transactions t WHERE t.artwork_id = artworks.id AND t.status = 'completed')`

type availabilityService interface {
	IsAvailable(ctx context.Context, artworkID string) (bool, error)
}

var availability availabilityService

// UseAvailability injects the availability rule shared with the checkout
// path, so the endpoint and the order assembler never disagree.
func UseAvailability(s availabilityService) {
	availability = s
}

// GET /api/artworks?category=&artist=&available=
func ListArtworks(c *gin.Context) {
	q := database.DB.Model(&catalog.Artwork{}).
		Preload("Category").
		Order("created_at DESC")

	if category := c.Query("category"); category != "" {
		q = q.Where("category_id = ?", category)
	}
	if artist := c.Query("artist"); artist != "" {
		q = q.Where("artist_id = ?", artist)
	}
	if c.Query("available") == "true" {
		q = q.Where("NOT " + soldSubquery)
	}

	var artworks []catalog.Artwork
	if err := q.Find(&artworks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load artworks"})
		return
	}
	c.JSON(http.StatusOK, artworks)
}

func GetArtworkByID(c *gin.Context) {
	var artwork catalog.Artwork
	if err := database.DB.
		Preload("Category").
		Preload("Artist").
		First(&artwork, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}

	available, err := availability.IsAvailable(c.Request.Context(), artwork.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"artwork": artwork, "available": available})
}

// GET /api/artworks/:id/availability
func GetArtworkAvailability(c *gin.Context) {
	id := c.Param("id")

	available, err := availability.IsAvailable(c.Request.Context(), id)
	if err != nil {
		var nf *service.NotFoundError
		if errors.As(err, &nf) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"artworkId": id, "available": available})
}

func CreateArtwork(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Price       string `json:"price" binding:"required"`
		ImageURL    string `json:"image_url"`
		CategoryID  *uint  `json:"category_id"`
		ArtistID    *uint  `json:"artist_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be a positive number"})
		return
	}

	if input.CategoryID != nil {
		var category catalog.Category
		if err := database.DB.First(&category, "id = ?", *input.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
	}

	// admins may upload on behalf of an artist
	artistID := userID
	if input.ArtistID != nil && c.GetString("role") == users.RoleAdmin {
		var artist users.User
		if err := database.DB.First(&artist, "id = ? AND role = ?", *input.ArtistID, users.RoleArtist).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown artist"})
			return
		}
		artistID = artist.ID
	}

	artwork := catalog.Artwork{
		Title:       input.Title,
		Description: input.Description,
		Price:       price.Round(2),
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
		ArtistID:    artistID,
	}
	if err := database.DB.Create(&artwork).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create artwork"})
		return
	}
	c.JSON(http.StatusCreated, artwork)
}

func UpdateArtwork(c *gin.Context) {
	artwork, ok := loadOwnedArtwork(c)
	if !ok {
		return
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Price       *string `json:"price"`
		ImageURL    *string `json:"image_url"`
		CategoryID  *uint   `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil && *input.Title != "" {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		price, err := decimal.NewFromString(*input.Price)
		if err != nil || price.LessThanOrEqual(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be a positive number"})
			return
		}
		updates["price"] = price.Round(2)
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.CategoryID != nil {
		var category catalog.Category
		if err := database.DB.First(&category, "id = ?", *input.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		updates["category_id"] = *input.CategoryID
	}

	if len(updates) > 0 {
		if err := database.DB.Model(artwork).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update artwork"})
			return
		}
	}
	c.JSON(http.StatusOK, artwork)
}

// DeleteArtwork refuses to remove a piece that a completed sale references.
func DeleteArtwork(c *gin.Context) {
	artwork, ok := loadOwnedArtwork(c)
	if !ok {
		return
	}

	available, err := availability.IsAvailable(c.Request.Context(), artwork.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}
	if !available {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Artwork has a completed sale and cannot be deleted"})
		return
	}

	if err := database.DB.Delete(artwork).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete artwork"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork deleted"})
}

// loadOwnedArtwork fetches the artwork and enforces that the caller is its
// artist or an admin.
func loadOwnedArtwork(c *gin.Context) (*catalog.Artwork, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	var artwork catalog.Artwork
	if err := database.DB.First(&artwork, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return nil, false
	}

	if artwork.ArtistID != userID && c.GetString("role") != users.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}
	return &artwork, true
}
