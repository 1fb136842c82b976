package artists

import (
	"net/http"

	"artmarket-app/database"
	"artmarket-app/internal/domain/catalog"
	"artmarket-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// Artists are users with the artist role; the catalog references them by
// user id.

func ListArtists(c *gin.Context) {
	var artists []users.User
	if err := database.DB.
		Where("role = ?", users.RoleArtist).
		Order("name ASC").
		Find(&artists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load artists"})
		return
	}
	c.JSON(http.StatusOK, artists)
}

func GetArtistByID(c *gin.Context) {
	var artist users.User
	if err := database.DB.
		First(&artist, "id = ? AND role = ?", c.Param("id"), users.RoleArtist).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}
	c.JSON(http.StatusOK, artist)
}

func GetArtistArtworks(c *gin.Context) {
	var artist users.User
	if err := database.DB.
		First(&artist, "id = ? AND role = ?", c.Param("id"), users.RoleArtist).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist not found"})
		return
	}

	var artworks []catalog.Artwork
	if err := database.DB.
		Preload("Category").
		Where("artist_id = ?", artist.ID).
		Order("created_at DESC").
		Find(&artworks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load artworks"})
		return
	}
	c.JSON(http.StatusOK, artworks)
}
