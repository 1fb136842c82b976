package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	routeInvoices      = "/api/v1/invoices"
	routeInvoiceStatus = "/api/v1/invoices/%s"

	// Provider sentinel for a settled invoice.
	statusPaid = "PAID"

	currencyCode = "USD"
)

// Config is the immutable provider configuration a Client is built with.
type Config struct {
	BaseURL   string
	APIKey    string
	AccountID string
	ProductID string
}

// Client talks to the external invoicing API. It holds no mutable state and
// is safe for concurrent use; construct one and inject it where needed.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether the client has enough config to reach the
// provider. Call sites use this to answer 500 instead of dialing nowhere.
func (c *Client) Configured() bool {
	return c.cfg.BaseURL != "" && c.cfg.APIKey != ""
}

// CreateInvoice submits an invoice for one order and returns the redirect URL
// the buyer pays at plus the provider's invoice number.
func (c *Client) CreateInvoice(
	ctx context.Context,
	orderID string,
	payer Contact,
	items []LineItem,
	description string,
) (*Invoice, error) {
	reqBody := invoiceRequest{
		ProductID:   c.cfg.ProductID,
		AccountID:   c.cfg.AccountID,
		Currency:    currencyCode,
		ExternalID:  orderID,
		Description: description,
		Payer:       payer,
		Items:       items,
	}

	env, err := c.send(ctx, http.MethodPost, c.cfg.BaseURL+routeInvoices, &reqBody)
	if err != nil {
		return nil, err
	}

	if env.Data.PaymentLinkURL == "" {
		return nil, &MalformedResponseError{Missing: "paymentLinkUrl"}
	}
	if env.Data.InvoiceNumber == "" {
		return nil, &MalformedResponseError{Missing: "invoiceNumber"}
	}

	return &Invoice{
		PaymentLinkURL: env.Data.PaymentLinkURL,
		InvoiceNumber:  env.Data.InvoiceNumber,
	}, nil
}

// VerifyPayment polls the invoice status and reports whether it is paid.
func (c *Client) VerifyPayment(ctx context.Context, invoiceNumber string) (bool, error) {
	url := c.cfg.BaseURL + fmt.Sprintf(routeInvoiceStatus, invoiceNumber)
	env, err := c.send(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	return env.Data.PaymentStatus == statusPaid, nil
}

func (c *Client) send(ctx context.Context, method, url string, reqBody *invoiceRequest) (*providerEnvelope, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env providerEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &ProviderError{StatusCode: resp.StatusCode, Message: string(body)}
		}
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    env.Message,
			Errors:     env.Errors,
		}
	}

	return &env, nil
}
