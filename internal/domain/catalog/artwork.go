package catalog

import (
	"time"

	"artmarket-app/internal/domain/users"

	"github.com/shopspring/decimal"
)

type Artwork struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Fixed-point with 2-digit scale; never a float.
	Price decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	ImageURL string `json:"image_url,omitempty"`

	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `json:"category,omitempty"`

	ArtistID uint        `gorm:"not null;index" json:"artist_id"`
	Artist   *users.User `json:"artist,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
