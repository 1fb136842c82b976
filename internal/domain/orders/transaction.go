package orders

import (
	"time"

	"artmarket-app/internal/domain/catalog"
	"artmarket-app/internal/domain/users"

	"github.com/shopspring/decimal"
)

// ShippingAddress is embedded into each transaction row so an order keeps the
// address it was placed with even if the buyer later edits their profile.
type ShippingAddress struct {
	FullName      string `gorm:"not null" json:"fullName" binding:"required"`
	StreetAddress string `gorm:"not null" json:"streetAddress" binding:"required"`
	City          string `gorm:"not null" json:"city" binding:"required"`
	State         string `gorm:"not null" json:"state" binding:"required"`
	ZipCode       string `gorm:"not null" json:"zipCode" binding:"required"`
	Country       string `gorm:"not null" json:"country" binding:"required"`
}

type Transaction struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status Status          `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`

	BuyerID uint        `gorm:"not null;index" json:"buyerId"`
	Buyer   *users.User `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`

	// The partial unique index is what makes "at most one completed sale per
	// artwork" hold under concurrent checkouts; the availability check alone
	// is check-then-act.
	ArtworkID string           `gorm:"type:uuid;not null;index;index:idx_transactions_artwork_completed,unique,where:status = 'completed'" json:"artworkId"`
	Artwork   *catalog.Artwork `gorm:"foreignKey:ArtworkID" json:"artwork,omitempty"`

	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shippingAddress"`

	// Set once a provider invoice covers this transaction.
	InvoiceNumber *string `gorm:"index" json:"invoiceNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
