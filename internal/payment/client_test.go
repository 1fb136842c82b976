package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
	server *httptest.Server
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *ClientTestSuite) newClient(handler http.HandlerFunc) *Client {
	s.server = httptest.NewServer(handler)
	return NewClient(Config{
		BaseURL:   s.server.URL,
		APIKey:    "secret-key",
		AccountID: "acct-1",
		ProductID: "prod-1",
	})
}

func (s *ClientTestSuite) testItems() []LineItem {
	return []LineItem{
		{Name: "Sunset Over Docks", Quantity: 1, UnitAmount: decimal.RequireFromString("100.00")},
	}
}

func (s *ClientTestSuite) TestCreateInvoiceSuccess() {
	var gotKey string
	var gotReq invoiceRequest

	client := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/api/v1/invoices", r.URL.Path)
		gotKey = r.Header.Get("X-Api-Key")
		s.NoError(json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"paymentLinkUrl": "https://pay.example.com/inv/INV-1",
				"invoiceNumber":  "INV-1",
			},
		})
	})

	inv, err := client.CreateInvoice(context.Background(), "tx-1", Contact{Name: "Jane", Email: "jane@example.com"}, s.testItems(), "1 artwork")
	s.Require().NoError(err)
	s.Equal("https://pay.example.com/inv/INV-1", inv.PaymentLinkURL)
	s.Equal("INV-1", inv.InvoiceNumber)

	s.Equal("secret-key", gotKey)
	s.Equal("prod-1", gotReq.ProductID)
	s.Equal("acct-1", gotReq.AccountID)
	s.Equal("USD", gotReq.Currency)
	s.Equal("tx-1", gotReq.ExternalID)
	s.Require().Len(gotReq.Items, 1)
	s.Equal(1, gotReq.Items[0].Quantity)
}

func (s *ClientTestSuite) TestCreateInvoiceProviderFailure() {
	client := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "invalid payer email",
			"errors": []map[string]string{
				{"field": "payer.email", "message": "must be a valid email"},
			},
		})
	})

	_, err := client.CreateInvoice(context.Background(), "tx-1", Contact{}, s.testItems(), "")
	s.Require().Error(err)

	var perr *ProviderError
	s.Require().ErrorAs(err, &perr)
	s.Equal(http.StatusUnprocessableEntity, perr.StatusCode)
	s.Equal("invalid payer email", perr.Message)
	s.Require().Len(perr.Errors, 1)
	s.Equal("payer.email", perr.Errors[0].Field)
}

func (s *ClientTestSuite) TestCreateInvoiceFalseSuccessEnvelope() {
	// 200 with success=false is still a provider failure
	client := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "account suspended",
		})
	})

	_, err := client.CreateInvoice(context.Background(), "tx-1", Contact{}, s.testItems(), "")
	var perr *ProviderError
	s.Require().ErrorAs(err, &perr)
	s.Equal("account suspended", perr.Message)
}

func (s *ClientTestSuite) TestCreateInvoiceMissingPaymentLink() {
	client := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"invoiceNumber": "INV-1"},
		})
	})

	_, err := client.CreateInvoice(context.Background(), "tx-1", Contact{}, s.testItems(), "")
	var merr *MalformedResponseError
	s.Require().ErrorAs(err, &merr)
	s.Equal("paymentLinkUrl", merr.Missing)
}

func (s *ClientTestSuite) TestVerifyPayment() {
	status := "PENDING"
	client := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodGet, r.Method)
		s.Equal("/api/v1/invoices/INV-9", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"paymentStatus": status},
		})
	})

	paid, err := client.VerifyPayment(context.Background(), "INV-9")
	s.Require().NoError(err)
	s.False(paid)

	status = "PAID"
	paid, err = client.VerifyPayment(context.Background(), "INV-9")
	s.Require().NoError(err)
	s.True(paid)
}

func (s *ClientTestSuite) TestVerifyPaymentProviderError() {
	client := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "invoice not found",
		})
	})

	_, err := client.VerifyPayment(context.Background(), "INV-404")
	var perr *ProviderError
	s.Require().ErrorAs(err, &perr)
	s.Equal(http.StatusNotFound, perr.StatusCode)
	s.Equal("invoice not found", perr.Message)
}

func (s *ClientTestSuite) TestNonJSONErrorBody() {
	client := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	})

	_, err := client.VerifyPayment(context.Background(), "INV-1")
	var perr *ProviderError
	s.Require().ErrorAs(err, &perr)
	s.Equal(http.StatusBadGateway, perr.StatusCode)
	s.Contains(perr.Message, "upstream timeout")
}
