package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"artmarket-app/internal/domain/catalog"
	"artmarket-app/internal/domain/orders"
	"artmarket-app/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store. InTransaction snapshots the transaction
// table and restores it when the callback fails, mirroring a rollback.
type fakeStore struct {
	artworks     map[string]catalog.Artwork
	transactions []orders.Transaction
	nextID       int
}

func newFakeStore(artworks ...catalog.Artwork) *fakeStore {
	f := &fakeStore{artworks: make(map[string]catalog.Artwork)}
	for _, a := range artworks {
		f.artworks[a.ID] = a
	}
	return f
}

func (f *fakeStore) InTransaction(_ context.Context, fn func(tx Store) error) error {
	snapshot := make([]orders.Transaction, len(f.transactions))
	copy(snapshot, f.transactions)
	if err := fn(f); err != nil {
		f.transactions = snapshot
		return err
	}
	return nil
}

func (f *fakeStore) ArtworkByID(_ context.Context, id string) (*catalog.Artwork, error) {
	a, ok := f.artworks[id]
	if !ok {
		return nil, &NotFoundError{ArtworkID: id}
	}
	return &a, nil
}

func (f *fakeStore) ArtworkForUpdate(ctx context.Context, id string) (*catalog.Artwork, error) {
	return f.ArtworkByID(ctx, id)
}

func (f *fakeStore) HasCompletedTransaction(_ context.Context, artworkID string) (bool, error) {
	for _, t := range f.transactions {
		if t.ArtworkID == artworkID && t.Status == orders.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, t *orders.Transaction) error {
	f.nextID++
	t.ID = fmt.Sprintf("tx-%d", f.nextID)
	f.transactions = append(f.transactions, *t)
	return nil
}

func (f *fakeStore) TransactionByID(_ context.Context, id string) (*orders.Transaction, error) {
	for _, t := range f.transactions {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, fmt.Errorf("transaction %s not found", id)
}

func (f *fakeStore) PendingInvoiceNumbers(_ context.Context, limit int) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, t := range f.transactions {
		if t.Status == orders.StatusPending && t.InvoiceNumber != nil && !seen[*t.InvoiceNumber] {
			seen[*t.InvoiceNumber] = true
			out = append(out, *t.InvoiceNumber)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) SettleInvoice(_ context.Context, invoiceNumber string, to orders.Status) (int64, error) {
	var n int64
	for i, t := range f.transactions {
		if t.InvoiceNumber != nil && *t.InvoiceNumber == invoiceNumber && t.Status == orders.StatusPending {
			f.transactions[i].Status = to
			n++
		}
	}
	return n, nil
}

func testArtwork(id string, price string) catalog.Artwork {
	return catalog.Artwork{
		ID:       id,
		Title:    "Artwork " + id,
		Price:    decimal.RequireFromString(price),
		ArtistID: 7,
	}
}

func testAddress() orders.ShippingAddress {
	return orders.ShippingAddress{
		FullName:      "Jane Buyer",
		StreetAddress: "1 Gallery Row",
		City:          "Springfield",
		State:         "IL",
		ZipCode:       "62704",
		Country:       "US",
	}
}

func newTestService(store Store) *OrderService {
	return NewOrderService(store, logger.New(io.Discard))
}

func TestCreateOrderHappyPath(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"), testArtwork("A2", "35.50"))
	svc := newTestService(store)

	items := []CartItem{
		{ArtworkID: "A1", Quantity: 1},
		{ArtworkID: "A2", Quantity: 2},
	}
	created, err := svc.CreateOrder(context.Background(), 1, items, testAddress())
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, orders.StatusPending, created[0].Status)
	assert.Equal(t, "100", created[0].Amount.String())
	assert.Equal(t, "A1", created[0].ArtworkID)
	assert.Equal(t, uint(1), created[0].BuyerID)

	assert.Equal(t, orders.StatusPending, created[1].Status)
	assert.Equal(t, "71", created[1].Amount.String())
	assert.Equal(t, "A2", created[1].ArtworkID)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.CreateOrder(context.Background(), 1, nil, testAddress())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateOrderMissingArtworkRollsBackWholeCart(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"))
	svc := newTestService(store)

	items := []CartItem{
		{ArtworkID: "A1", Quantity: 1},
		{ArtworkID: "GONE", Quantity: 1},
	}
	_, err := svc.CreateOrder(context.Background(), 1, items, testAddress())

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "GONE", nf.ArtworkID)

	// first item must not survive the failed call
	assert.Empty(t, store.transactions)
}

func TestCreateOrderAlreadySold(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"))
	inv := "INV-1"
	store.transactions = append(store.transactions, orders.Transaction{
		ID:            "tx-sold",
		ArtworkID:     "A1",
		BuyerID:       9,
		Status:        orders.StatusCompleted,
		InvoiceNumber: &inv,
	})
	svc := newTestService(store)

	_, err := svc.CreateOrder(context.Background(), 1, []CartItem{{ArtworkID: "A1", Quantity: 1}}, testAddress())

	var sold *AlreadySoldError
	require.ErrorAs(t, err, &sold)
	assert.Equal(t, "A1", sold.ArtworkID)
	assert.Len(t, store.transactions, 1, "no new transaction may be created")
}

func TestCreateOrderPendingDoesNotBlockSecondOrder(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"))
	svc := newTestService(store)
	items := []CartItem{{ArtworkID: "A1", Quantity: 1}}

	first, err := svc.CreateOrder(context.Background(), 1, items, testAddress())
	require.NoError(t, err)
	require.Equal(t, orders.StatusPending, first[0].Status)

	// a pending sale is not a completed sale; only payment completion is
	// exclusive
	second, err := svc.CreateOrder(context.Background(), 2, items, testAddress())
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPending, second[0].Status)
	assert.Len(t, store.transactions, 2)
}

func TestCreateOrderPriceMismatch(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"))
	svc := newTestService(store)

	items := []CartItem{{ArtworkID: "A1", Quantity: 1, Price: decimal.RequireFromString("1.00")}}
	_, err := svc.CreateOrder(context.Background(), 1, items, testAddress())

	var mismatch *PriceMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Empty(t, store.transactions)
}

func TestCreateOrderMatchingClientPriceAccepted(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"))
	svc := newTestService(store)

	items := []CartItem{{ArtworkID: "A1", Quantity: 3, Price: decimal.RequireFromString("100.00")}}
	created, err := svc.CreateOrder(context.Background(), 1, items, testAddress())
	require.NoError(t, err)
	assert.Equal(t, "300", created[0].Amount.String())
}

func TestCreateOrderRejectsBadQuantity(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"))
	svc := newTestService(store)

	for _, q := range []int{0, -1} {
		_, err := svc.CreateOrder(context.Background(), 1, []CartItem{{ArtworkID: "A1", Quantity: q}}, testAddress())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "quantity %d", q)
	}
}

func TestCreateOrderRejectsIncompleteAddress(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"))
	svc := newTestService(store)

	addr := testAddress()
	addr.ZipCode = ""
	_, err := svc.CreateOrder(context.Background(), 1, []CartItem{{ArtworkID: "A1", Quantity: 1}}, addr)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "zipCode")
}

func TestIsAvailableIdempotent(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"))
	svc := newTestService(store)

	first, err := svc.IsAvailable(context.Background(), "A1")
	require.NoError(t, err)
	second, err := svc.IsAvailable(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, first)

	store.transactions = append(store.transactions, orders.Transaction{
		ID:        "tx-1",
		ArtworkID: "A1",
		Status:    orders.StatusCompleted,
	})
	avail, err := svc.IsAvailable(context.Background(), "A1")
	require.NoError(t, err)
	assert.False(t, avail)
}

func TestCreateOrderRoundTrip(t *testing.T) {
	store := newFakeStore(testArtwork("A1", "100.00"))
	svc := newTestService(store)
	addr := testAddress()

	created, err := svc.CreateOrder(context.Background(), 42, []CartItem{{ArtworkID: "A1", Quantity: 1}}, addr)
	require.NoError(t, err)

	got, err := store.TransactionByID(context.Background(), created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uint(42), got.BuyerID)
	assert.Equal(t, "A1", got.ArtworkID)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, addr, got.ShippingAddress)
}

func TestSettleInvoice(t *testing.T) {
	store := newFakeStore()
	inv := "INV-7"
	store.transactions = []orders.Transaction{
		{ID: "tx-1", ArtworkID: "A1", Status: orders.StatusPending, InvoiceNumber: &inv},
		{ID: "tx-2", ArtworkID: "A2", Status: orders.StatusPending, InvoiceNumber: &inv},
		{ID: "tx-3", ArtworkID: "A3", Status: orders.StatusFailed, InvoiceNumber: &inv},
	}
	svc := newTestService(store)

	n, err := svc.SettleInvoice(context.Background(), "INV-7", orders.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, orders.StatusCompleted, store.transactions[0].Status)
	assert.Equal(t, orders.StatusCompleted, store.transactions[1].Status)
	assert.Equal(t, orders.StatusFailed, store.transactions[2].Status, "terminal rows stay put")

	// settling to pending is not a transition
	_, err = svc.SettleInvoice(context.Background(), "INV-7", orders.StatusPending)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}
