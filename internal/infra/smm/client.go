package smm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client talks to the upstream SMM reseller panel. The panel exposes a single
// endpoint that multiplexes on the "action" form field and authenticates via
// a shared key in the request body.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

// OrderStatus is the live upstream state of a placed order. Panels return
// these fields inconsistently as strings or numbers; values are normalized
// to strings.
type OrderStatus struct {
	Status     string
	Remains    string
	StartCount string
}

func NewClient(httpClient *http.Client, apiURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimSpace(apiURL),
		apiKey:     apiKey,
	}
}

// AddOrder places one delivery order and returns the upstream order code.
func (c *Client) AddOrder(ctx context.Context, serviceCode, link string, quantity int) (string, error) {
	if serviceCode == "" || link == "" || quantity <= 0 {
		return "", fmt.Errorf("invalid add order payload")
	}

	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("action", "add")
	form.Set("service", serviceCode)
	form.Set("link", link)
	form.Set("quantity", strconv.Itoa(quantity))

	body, err := c.post(ctx, form)
	if err != nil {
		return "", err
	}

	var payload struct {
		Order json.RawMessage `json:"order"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode add order response: %w", err)
	}
	if payload.Error != "" {
		return "", fmt.Errorf("upstream rejected order: %s", payload.Error)
	}

	orderID := rawToString(payload.Order)
	if orderID == "" {
		return "", fmt.Errorf("upstream response has no order id")
	}

	return orderID, nil
}

// OrderStatus queries the live state of a previously placed order.
func (c *Client) OrderStatus(ctx context.Context, orderCode string) (OrderStatus, error) {
	if strings.TrimSpace(orderCode) == "" {
		return OrderStatus{}, fmt.Errorf("order code is required")
	}

	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("action", "status")
	form.Set("order", orderCode)

	body, err := c.post(ctx, form)
	if err != nil {
		return OrderStatus{}, err
	}

	var payload struct {
		Status     json.RawMessage `json:"status"`
		Remains    json.RawMessage `json:"remains"`
		StartCount json.RawMessage `json:"start_count"`
		Error      string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return OrderStatus{}, fmt.Errorf("decode order status response: %w", err)
	}
	if payload.Error != "" {
		return OrderStatus{}, fmt.Errorf("upstream rejected status query: %s", payload.Error)
	}

	return OrderStatus{
		Status:     rawToString(payload.Status),
		Remains:    rawToString(payload.Remains),
		StartCount: rawToString(payload.StartCount),
	}, nil
}

func (c *Client) post(ctx context.Context, form url.Values) ([]byte, error) {
	if c.apiURL == "" {
		return nil, fmt.Errorf("smm api url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build smm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call smm api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read smm response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("smm api returned status %d", resp.StatusCode)
	}

	return body, nil
}

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String()
	}

	return strings.TrimSpace(string(raw))
}
