package service

import (
	"context"
	"errors"

	"artmarket-app/internal/domain/catalog"
	"artmarket-app/internal/domain/orders"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of the shared gorm connection pool.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (g *GormStore) ArtworkByID(ctx context.Context, id string) (*catalog.Artwork, error) {
	var artwork catalog.Artwork
	err := g.db.WithContext(ctx).First(&artwork, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{ArtworkID: id}
	}
	if err != nil {
		return nil, err
	}
	return &artwork, nil
}

// ArtworkForUpdate loads an artwork under a row lock. Only meaningful inside
// InTransaction; the lock serializes concurrent checkouts of the same item.
func (g *GormStore) ArtworkForUpdate(ctx context.Context, id string) (*catalog.Artwork, error) {
	var artwork catalog.Artwork
	err := g.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&artwork, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{ArtworkID: id}
	}
	if err != nil {
		return nil, err
	}
	return &artwork, nil
}

func (g *GormStore) HasCompletedTransaction(ctx context.Context, artworkID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&orders.Transaction{}).
		Where("artwork_id = ? AND status = ?", artworkID, orders.StatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *GormStore) CreateTransaction(ctx context.Context, t *orders.Transaction) error {
	return g.db.WithContext(ctx).Create(t).Error
}

func (g *GormStore) TransactionByID(ctx context.Context, id string) (*orders.Transaction, error) {
	var t orders.Transaction
	if err := g.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// PendingInvoiceNumbers lists distinct invoice numbers that still have at
// least one pending transaction attached.
func (g *GormStore) PendingInvoiceNumbers(ctx context.Context, limit int) ([]string, error) {
	var invoices []string
	err := g.db.WithContext(ctx).
		Model(&orders.Transaction{}).
		Distinct("invoice_number").
		Where("invoice_number IS NOT NULL AND status = ?", orders.StatusPending).
		Limit(limit).
		Pluck("invoice_number", &invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// SettleInvoice flips every pending transaction on the invoice to the target
// status. The status predicate keeps terminal rows untouched and the partial
// unique index rejects a second completed sale of the same artwork.
func (g *GormStore) SettleInvoice(ctx context.Context, invoiceNumber string, to orders.Status) (int64, error) {
	res := g.db.WithContext(ctx).
		Model(&orders.Transaction{}).
		Where("invoice_number = ? AND status = ?", invoiceNumber, orders.StatusPending).
		Update("status", to)
	return res.RowsAffected, res.Error
}
