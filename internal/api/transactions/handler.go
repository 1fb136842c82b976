package transactions

import (
	"context"
	"net/http"

	"artmarket-app/database"
	"artmarket-app/internal/api/checkout"
	"artmarket-app/internal/domain/orders"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type orderCreator interface {
	CreateOrder(ctx context.Context, buyerID uint, items []service.CartItem, addr orders.ShippingAddress) ([]orders.Transaction, error)
}

// Handler keeps the direct transaction-creation path alive but routes it
// through the same order assembler as the cart checkout, so the
// duplicate-sale rule lives in exactly one place.
type Handler struct {
	Orders orderCreator
}

func NewHandler(svc orderCreator) *Handler {
	return &Handler{Orders: svc}
}

type createRequest struct {
	ArtworkID       string                 `json:"artworkId" binding:"required"`
	Amount          string                 `json:"amount"`
	ShippingAddress orders.ShippingAddress `json:"shippingAddress" binding:"required"`
}

// POST /api/transactions
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item := service.CartItem{ArtworkID: req.ArtworkID, Quantity: 1}
	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		item.Price = amount
	}

	created, err := h.Orders.CreateOrder(c.Request.Context(), userID, []service.CartItem{item}, req.ShippingAddress)
	if err != nil {
		checkout.RespondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created[0])
}

// GET /api/transactions — admins see everything, everyone else their own.
func ListTransactions(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	q := database.DB.Preload("Artwork").Order("created_at DESC")
	if c.GetString("role") != users.RoleAdmin {
		q = q.Where("buyer_id = ?", userID)
	}

	var list []orders.Transaction
	if err := q.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/transactions/:id
func GetTransactionByID(c *gin.Context) {
	t, ok := loadVisibleTransaction(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, t)
}

// PUT /api/transactions/:id — admin-only override; status normally moves
// through payment settlement (webhook/poller). Changes still follow the
// lifecycle: pending may complete or fail, terminal states never move.
func UpdateTransactionStatus(c *gin.Context) {
	var input struct {
		Status orders.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	var t orders.Transaction
	if err := database.DB.First(&t, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	if !t.Status.CanTransition(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change status from " + string(t.Status) + " to " + string(input.Status)})
		return
	}

	// the predicate re-checks the current status so a concurrent settle
	// cannot be overwritten
	res := database.DB.Model(&orders.Transaction{}).
		Where("id = ? AND status = ?", t.ID, t.Status).
		Update("status", input.Status)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Transaction status changed concurrently"})
		return
	}

	t.Status = input.Status
	c.JSON(http.StatusOK, t)
}

// DELETE /api/transactions/:id — owner or admin only; completed sales are
// immutable records.
func DeleteTransaction(c *gin.Context) {
	t, ok := loadVisibleTransaction(c)
	if !ok {
		return
	}

	if t.Status == orders.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Completed transactions cannot be deleted"})
		return
	}

	if err := database.DB.Delete(t).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

func loadVisibleTransaction(c *gin.Context) (*orders.Transaction, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	var t orders.Transaction
	if err := database.DB.Preload("Artwork").First(&t, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return nil, false
	}

	if t.BuyerID != userID && c.GetString("role") != users.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}
	return &t, true
}
