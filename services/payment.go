package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const paymongoBaseURL = "https://api.paymongo.com/v1"

// CheckoutLine is one line item of a GCash checkout session.
type CheckoutLine struct {
	Name     string
	Quantity int
	// Price is the unit price in pesos.
	Price float64
}

// CheckoutProvider creates hosted payment sessions. Production uses
// PayMongo; tests substitute a stub returning a fixed URL.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, lines []CheckoutLine, successURL string) (string, error)
}

// PayMongoProvider implements CheckoutProvider using the PayMongo
// Checkout Sessions API.
type PayMongoProvider struct {
	secretKey  string
	httpClient *http.Client
}

func NewPayMongoProvider(secretKey string) *PayMongoProvider {
	return &PayMongoProvider{
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- PayMongo API request/response structs ----

type paymongoLineItem struct {
	Currency string `json:"currency"`
	// Amount is the unit price in centavos.
	Amount   int64  `json:"amount"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type paymongoSessionAttributes struct {
	SendEmailReceipt    bool               `json:"send_email_receipt"`
	ShowDescription     bool               `json:"show_description"`
	ShowLineItems       bool               `json:"show_line_items"`
	Description         string             `json:"description"`
	LineItems           []paymongoLineItem `json:"line_items"`
	PaymentMethodTypes  []string           `json:"payment_method_types"`
	SuccessURL          string             `json:"success_url"`
}

type paymongoSessionRequest struct {
	Data struct {
		Attributes paymongoSessionAttributes `json:"attributes"`
	} `json:"data"`
}

type paymongoSessionResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			CheckoutURL string `json:"checkout_url"`
		} `json:"attributes"`
	} `json:"data"`
}

// CreateCheckoutSession opens a GCash checkout session and returns the
// hosted checkout URL the customer is redirected to.
func (p *PayMongoProvider) CreateCheckoutSession(ctx context.Context, lines []CheckoutLine, successURL string) (string, error) {
	items := make([]paymongoLineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, paymongoLineItem{
			Currency: "PHP",
			Amount:   int64(line.Price * 100),
			Name:     line.Name,
			Quantity: line.Quantity,
		})
	}

	var reqBody paymongoSessionRequest
	reqBody.Data.Attributes = paymongoSessionAttributes{
		SendEmailReceipt:   true,
		ShowDescription:    true,
		ShowLineItems:      true,
		Description:        "TeamPOOR order payment",
		LineItems:          items,
		PaymentMethodTypes: []string{"gcash"},
		SuccessURL:         successURL,
	}

	var resp paymongoSessionResponse
	if err := p.doRequest(ctx, http.MethodPost, "/checkout_sessions", reqBody, &resp); err != nil {
		return "", fmt.Errorf("paymongo CreateCheckoutSession: %w", err)
	}
	if resp.Data.Attributes.CheckoutURL == "" {
		return "", fmt.Errorf("paymongo CreateCheckoutSession: empty checkout_url")
	}
	return resp.Data.Attributes.CheckoutURL, nil
}

func (p *PayMongoProvider) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, paymongoBaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(p.secretKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paymongo API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
