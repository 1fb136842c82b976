package checkout

import (
	"context"
	"errors"
	"net/http"

	"artmarket-app/internal/domain/orders"
	"artmarket-app/internal/payment"
	"artmarket-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type orderCreator interface {
	CreateOrder(ctx context.Context, buyerID uint, items []service.CartItem, addr orders.ShippingAddress) ([]orders.Transaction, error)
}

type Handler struct {
	Orders orderCreator
}

func NewHandler(svc orderCreator) *Handler {
	return &Handler{Orders: svc}
}

type checkoutItem struct {
	ArtworkID string `json:"artworkId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Price     string `json:"price"`
}

type checkoutRequest struct {
	Items           []checkoutItem         `json:"items" binding:"required"`
	BuyerID         uint                   `json:"buyerId" binding:"required"`
	ShippingAddress orders.ShippingAddress `json:"shippingAddress" binding:"required"`
}

// POST /api/checkout
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if req.BuyerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Buyer does not match authenticated user"})
		return
	}

	items := make([]service.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		item := service.CartItem{ArtworkID: it.ArtworkID, Quantity: it.Quantity}
		if it.Price != "" {
			price, err := decimal.NewFromString(it.Price)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price for artwork " + it.ArtworkID})
				return
			}
			item.Price = price
		}
		items = append(items, item)
	}

	created, err := h.Orders.CreateOrder(c.Request.Context(), userID, items, req.ShippingAddress)
	if err != nil {
		RespondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order placed successfully",
		"transactions": created,
	})
}

// RespondOrderError translates order assembly errors into HTTP responses.
// Shared with the direct transaction-creation path.
func RespondOrderError(c *gin.Context, err error) {
	var (
		notFound *service.NotFoundError
		sold     *service.AlreadySoldError
		mismatch *service.PriceMismatchError
		invalid  *service.ValidationError
		provider *payment.ProviderError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &sold):
		c.JSON(http.StatusConflict, gin.H{"error": sold.Error()})
	case errors.As(err, &mismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": mismatch.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.As(err, &provider):
		c.JSON(http.StatusInternalServerError, gin.H{"error": provider.Message, "details": provider.Errors})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
