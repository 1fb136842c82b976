package service

import (
	"context"
	"errors"
	"fmt"

	"artmarket-app/internal/domain/catalog"
	"artmarket-app/internal/domain/orders"
	"artmarket-app/internal/metrics"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CartItem is one line of a checkout request. Price is optional; when set it
// must match the stored artwork price or the whole cart is rejected.
type CartItem struct {
	ArtworkID string
	Quantity  int
	Price     decimal.Decimal
}

// Store is the persistence surface the order assembler needs. InTransaction
// must hand the callback a Store bound to one database transaction so a cart
// commits or rolls back as a unit.
type Store interface {
	InTransaction(ctx context.Context, fn func(tx Store) error) error
	ArtworkByID(ctx context.Context, id string) (*catalog.Artwork, error)
	ArtworkForUpdate(ctx context.Context, id string) (*catalog.Artwork, error)
	HasCompletedTransaction(ctx context.Context, artworkID string) (bool, error)
	CreateTransaction(ctx context.Context, t *orders.Transaction) error
	TransactionByID(ctx context.Context, id string) (*orders.Transaction, error)
	PendingInvoiceNumbers(ctx context.Context, limit int) ([]string, error)
	SettleInvoice(ctx context.Context, invoiceNumber string, to orders.Status) (int64, error)
}

type OrderService struct {
	store Store
	log   *logrus.Logger
}

func NewOrderService(store Store, log *logrus.Logger) *OrderService {
	return &OrderService{store: store, log: log}
}

// CreateOrder turns a validated cart into pending transactions, one per item,
// in input order. The whole cart runs inside one database transaction: any
// missing artwork, duplicate sale or price mismatch rolls back every row of
// the call. Each artwork row is locked before its availability check so two
// concurrent carts cannot interleave on the same item.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	buyerID uint,
	items []CartItem,
	addr orders.ShippingAddress,
) ([]orders.Transaction, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Msg: "cart must contain at least one item"}
	}
	if err := validateAddress(addr); err != nil {
		return nil, err
	}

	created := make([]orders.Transaction, 0, len(items))
	err := s.store.InTransaction(ctx, func(tx Store) error {
		for _, item := range items {
			if item.Quantity <= 0 {
				return &ValidationError{Msg: fmt.Sprintf("quantity for artwork %s must be a positive integer", item.ArtworkID)}
			}

			artwork, err := tx.ArtworkForUpdate(ctx, item.ArtworkID)
			if err != nil {
				return err
			}

			sold, err := tx.HasCompletedTransaction(ctx, artwork.ID)
			if err != nil {
				return err
			}
			if sold {
				return &AlreadySoldError{ArtworkID: artwork.ID}
			}

			if !item.Price.IsZero() && !item.Price.Equal(artwork.Price) {
				return &PriceMismatchError{ArtworkID: artwork.ID, Given: item.Price, Stored: artwork.Price}
			}

			t := orders.Transaction{
				Amount:          artwork.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
				Status:          orders.StatusPending,
				BuyerID:         buyerID,
				ArtworkID:       artwork.ID,
				ShippingAddress: addr,
			}
			if err := tx.CreateTransaction(ctx, &t); err != nil {
				return err
			}
			created = append(created, t)
		}
		return nil
	})
	if err != nil {
		metrics.CheckoutFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	metrics.TransactionsCreated.Add(float64(len(created)))
	s.log.WithFields(logrus.Fields{
		"buyer_id": buyerID,
		"items":    len(created),
	}).Info("order created")

	return created, nil
}

// IsAvailable reports whether an artwork can still be sold: true iff no
// completed transaction references it. Always a fresh query, never cached.
func (s *OrderService) IsAvailable(ctx context.Context, artworkID string) (bool, error) {
	if _, err := s.store.ArtworkByID(ctx, artworkID); err != nil {
		return false, err
	}
	sold, err := s.store.HasCompletedTransaction(ctx, artworkID)
	if err != nil {
		return false, err
	}
	return !sold, nil
}

// SettleInvoice moves every pending transaction on the invoice to the given
// final status. Returns how many rows were settled; transactions already in a
// terminal state are left untouched.
func (s *OrderService) SettleInvoice(ctx context.Context, invoiceNumber string, to orders.Status) (int64, error) {
	if !orders.StatusPending.CanTransition(to) {
		return 0, &ValidationError{Msg: fmt.Sprintf("cannot settle invoice to status %q", to)}
	}
	n, err := s.store.SettleInvoice(ctx, invoiceNumber, to)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.PaymentsSettled.WithLabelValues(string(to)).Add(float64(n))
		s.log.WithFields(logrus.Fields{
			"invoice": invoiceNumber,
			"status":  to,
			"count":   n,
		}).Info("invoice settled")
	}
	return n, nil
}

// PendingInvoiceNumbers exposes the store lookup the payment poller runs on.
func (s *OrderService) PendingInvoiceNumbers(ctx context.Context, limit int) ([]string, error) {
	return s.store.PendingInvoiceNumbers(ctx, limit)
}

func validateAddress(addr orders.ShippingAddress) error {
	missing := ""
	switch {
	case addr.FullName == "":
		missing = "fullName"
	case addr.StreetAddress == "":
		missing = "streetAddress"
	case addr.City == "":
		missing = "city"
	case addr.State == "":
		missing = "state"
	case addr.ZipCode == "":
		missing = "zipCode"
	case addr.Country == "":
		missing = "country"
	}
	if missing != "" {
		return &ValidationError{Msg: "shipping address is missing " + missing}
	}
	return nil
}

func failureReason(err error) string {
	var (
		notFound *NotFoundError
		sold     *AlreadySoldError
		mismatch *PriceMismatchError
		invalid  *ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &sold):
		return "already_sold"
	case errors.As(err, &mismatch):
		return "price_mismatch"
	case errors.As(err, &invalid):
		return "validation"
	default:
		return "internal"
	}
}
