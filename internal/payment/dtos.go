package payment

import "github.com/shopspring/decimal"

// Contact identifies the payer on the provider invoice.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LineItem is one invoice line in provider terms.
type LineItem struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitAmount decimal.Decimal `json:"unitAmount"`
}

// Invoice is the usable part of a successful invoice-creation response.
type Invoice struct {
	PaymentLinkURL string
	InvoiceNumber  string
}

type invoiceRequest struct {
	ProductID   string     `json:"productId"`
	AccountID   string     `json:"accountId"`
	Currency    string     `json:"currency"`
	ExternalID  string     `json:"externalId"`
	Description string     `json:"description"`
	Payer       Contact    `json:"payer"`
	Items       []LineItem `json:"items"`
}

type providerData struct {
	PaymentLinkURL string `json:"paymentLinkUrl"`
	InvoiceNumber  string `json:"invoiceNumber"`
	PaymentStatus  string `json:"paymentStatus"`
}

type providerEnvelope struct {
	Success bool         `json:"success"`
	Data    providerData `json:"data"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}
