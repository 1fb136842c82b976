package payments

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"artmarket-app/config"
	"artmarket-app/database"
	"artmarket-app/internal/api/checkout"
	"artmarket-app/internal/domain/orders"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/payment"

	"github.com/gin-gonic/gin"
)

type invoiceSettler interface {
	SettleInvoice(ctx context.Context, invoiceNumber string, to orders.Status) (int64, error)
}

type Handler struct {
	Client *payment.Client
	Orders invoiceSettler
}

func NewHandler(client *payment.Client, settler invoiceSettler) *Handler {
	return &Handler{Client: client, Orders: settler}
}

type invoiceRequest struct {
	TransactionIDs []string `json:"transactionIds" binding:"required"`
}

// POST /api/payments/invoice — creates one provider invoice covering the
// caller's pending transactions and stamps its number onto each of them.
func (h *Handler) CreateInvoice(c *gin.Context) {
	if !h.Client.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment provider not configured"})
		return
	}

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.TransactionIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transactionIds must be a non-empty list"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var buyer users.User
	if err := database.DB.First(&buyer, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var txs []orders.Transaction
	if err := database.DB.
		Preload("Artwork").
		Where("id IN ? AND buyer_id = ?", req.TransactionIDs, userID).
		Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}
	if len(txs) != len(req.TransactionIDs) {
		c.JSON(http.StatusNotFound, gin.H{"error": "One or more transactions not found"})
		return
	}

	items := make([]payment.LineItem, 0, len(txs))
	for _, t := range txs {
		if t.Status != orders.StatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction " + t.ID + " is not pending"})
			return
		}
		if t.InvoiceNumber != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction " + t.ID + " already has an invoice"})
			return
		}
		name := "Artwork"
		if t.Artwork != nil {
			name = t.Artwork.Title
		}
		items = append(items, payment.LineItem{
			Name:       name,
			Quantity:   1,
			UnitAmount: t.Amount,
		})
	}

	description := "Purchase of " + itemCountLabel(len(items))
	inv, err := h.Client.CreateInvoice(
		c.Request.Context(),
		txs[0].ID,
		payment.Contact{Name: buyer.Name, Email: buyer.Email},
		items,
		description,
	)
	if err != nil {
		checkout.RespondOrderError(c, err)
		return
	}

	if err := database.DB.Model(&orders.Transaction{}).
		Where("id IN ?", req.TransactionIDs).
		Update("invoice_number", inv.InvoiceNumber).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store invoice number"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"paymentUrl":    inv.PaymentLinkURL,
		"invoiceNumber": inv.InvoiceNumber,
	})
}

// GET /api/payments/:invoiceNumber/status
func (h *Handler) GetPaymentStatus(c *gin.Context) {
	if !h.Client.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment provider not configured"})
		return
	}

	invoiceNumber := c.Param("invoiceNumber")
	paid, err := h.Client.VerifyPayment(c.Request.Context(), invoiceNumber)
	if err != nil {
		checkout.RespondOrderError(c, err)
		return
	}

	if paid {
		// settle opportunistically so a poll from the frontend is enough to
		// move the order forward even without the webhook
		if _, err := h.Orders.SettleInvoice(c.Request.Context(), invoiceNumber, orders.StatusCompleted); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle invoice"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"invoiceNumber": invoiceNumber, "paid": paid})
}

type webhookPayload struct {
	InvoiceNumber string `json:"invoiceNumber" binding:"required"`
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// POST /api/payments/webhook — provider callback, authenticated by the
// static callback token header.
func (h *Handler) Webhook(c *gin.Context) {
	if config.PAYMENT_CALLBACK_TOKEN == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PAYMENT_CALLBACK_TOKEN not configured"})
		return
	}
	if c.GetHeader("X-Callback-Token") != config.PAYMENT_CALLBACK_TOKEN {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid callback token"})
		return
	}

	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target orders.Status
	switch strings.ToUpper(payload.PaymentStatus) {
	case "PAID":
		target = orders.StatusCompleted
	case "EXPIRED", "FAILED":
		target = orders.StatusFailed
	default:
		// acknowledge unknown statuses to avoid provider retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if _, err := h.Orders.SettleInvoice(c.Request.Context(), payload.InvoiceNumber, target); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func itemCountLabel(n int) string {
	if n == 1 {
		return "1 artwork"
	}
	return fmt.Sprintf("%d artworks", n)
}
