package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.stripe.com/v1"

// HTTPClient talks to the Stripe REST API directly. Only the handful of calls
// this product needs are implemented; everything else about Stripe is treated
// as an opaque external capability.
type HTTPClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(secretKey string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{
		baseURL:    defaultBaseURL,
		secretKey:  strings.TrimSpace(secretKey),
		httpClient: httpClient,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(secretKey, baseURL string, httpClient *http.Client) *HTTPClient {
	c := NewClient(secretKey, httpClient)
	c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return c
}

type PaymentIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Subscription struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	CancelAt     int64  `json:"cancel_at"`
	ClientSecret string `json:"-"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *HTTPClient) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	for key, value := range metadata {
		form.Set("metadata["+key+"]", value)
	}
	var intent PaymentIntent
	if err := c.post(ctx, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *HTTPClient) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := c.get(ctx, "/payment_intents/"+url.PathEscape(id), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *HTTPClient) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*Customer, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)
	for key, value := range metadata {
		form.Set("metadata["+key+"]", value)
	}
	var customer Customer
	if err := c.post(ctx, "/customers", form, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateSubscription starts the monthly subscription for the customer with an
// incomplete first payment, expanding the invoice's payment intent so the
// client secret can be handed to the frontend.
func (c *HTTPClient) CreateSubscription(ctx context.Context, customerID string, amountCents int64, currency, productName string) (*Subscription, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("items[0][price_data][currency]", currency)
	form.Set("items[0][price_data][product_data][name]", productName)
	form.Set("items[0][price_data][unit_amount]", strconv.FormatInt(amountCents, 10))
	form.Set("items[0][price_data][recurring][interval]", "month")
	form.Set("payment_behavior", "default_incomplete")
	form.Set("payment_settings[save_default_payment_method]", "on_subscription")
	form.Set("expand[]", "latest_invoice.payment_intent")

	var parsed struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		LatestInvoice struct {
			PaymentIntent struct {
				ClientSecret string `json:"client_secret"`
			} `json:"payment_intent"`
		} `json:"latest_invoice"`
	}
	if err := c.post(ctx, "/subscriptions", form, &parsed); err != nil {
		return nil, err
	}
	return &Subscription{
		ID:           parsed.ID,
		Status:       parsed.Status,
		ClientSecret: parsed.LatestInvoice.PaymentIntent.ClientSecret,
	}, nil
}

// CancelAtPeriodEnd flags the subscription to end at the close of the current
// billing period instead of immediately.
func (c *HTTPClient) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*Subscription, error) {
	form := url.Values{}
	form.Set("cancel_at_period_end", "true")
	var sub Subscription
	if err := c.post(ctx, "/subscriptions/"+url.PathEscape(subscriptionID), form, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create stripe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create stripe request: %w", err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send stripe request: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read stripe response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed apiError
		if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Error.Message != "" {
			return fmt.Errorf("stripe api error: %s", parsed.Error.Message)
		}
		return fmt.Errorf("stripe api error: status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode stripe response: %w", err)
	}
	return nil
}
