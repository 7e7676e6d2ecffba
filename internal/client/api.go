// Package client implements the application core driving the spendtrack API:
// an in-memory mirror of transactions, categories, and plans, optimistic
// mutation with rollback, plan reconciliation, and derived views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"spendtrack/internal/models"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
)

// APIError is an application-level error payload returned by the server,
// distinct from a transport failure.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Message }

// Collections is the authoritative state echoed by the server. Mutation
// responses carry the full collection for the mutated entity.
type Collections struct {
	Transactions []models.Transaction `json:"transactions"`
	Categories   []models.Category    `json:"categories"`
	Plans        []models.Plan        `json:"plans"`
}

// API is the remote store consumed by the sync controller.
type API interface {
	FetchTransactions(ctx context.Context) ([]models.Transaction, error)
	FetchCategories(ctx context.Context) ([]models.Category, error)
	FetchPlans(ctx context.Context) ([]models.Plan, error)

	CreateTransaction(ctx context.Context, form TransactionForm) (*Collections, error)
	UpdateTransaction(ctx context.Context, id uint, form TransactionForm) (*Collections, error)
	DeleteTransaction(ctx context.Context, id uint) (*Collections, error)

	CreateCategory(ctx context.Context, name string) (*Collections, error)
	UpdateCategory(ctx context.Context, id uint, name string) (*Collections, error)
	DeleteCategory(ctx context.Context, id uint) (*Collections, error)

	CreatePlan(ctx context.Context, form PlanForm) (*Collections, error)
	UpdatePlan(ctx context.Context, id uint, form PlanForm) (*Collections, error)
	DeletePlan(ctx context.Context, id uint) (*Collections, error)

	DownloadReport(ctx context.Context, format string) ([]byte, error)
}

// HTTPClient talks to the spendtrack HTTP API. It keeps a cookie jar so the
// anti-forgery token cookie issued on the first safe request can be echoed
// in a header on every mutating request.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates an API client for the server at baseURL
// (e.g. "http://localhost:8080/api/v1").
func NewHTTPClient(baseURL string) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

// csrfToken returns the anti-forgery token currently held for the base URL.
func (c *HTTPClient) csrfToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		if token := c.csrfToken(); token != "" {
			req.Header.Set(csrfHeaderName, token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error APIError `json:"error"`
		}
		if jsonErr := json.Unmarshal(data, &errBody); jsonErr == nil && errBody.Error.Message != "" {
			return &errBody.Error
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Bootstrap issues a safe request so the server sets the anti-forgery
// token cookie before any mutation is attempted.
func (c *HTTPClient) Bootstrap(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/categories", nil, nil)
}

// FetchTransactions retrieves the full transaction collection.
func (c *HTTPClient) FetchTransactions(ctx context.Context) ([]models.Transaction, error) {
	var out Collections
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// FetchCategories retrieves the full category collection.
func (c *HTTPClient) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var out Collections
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// FetchPlans retrieves the full plan collection.
func (c *HTTPClient) FetchPlans(ctx context.Context) ([]models.Plan, error) {
	var out Collections
	if err := c.do(ctx, http.MethodGet, "/plans", nil, &out); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

func (c *HTTPClient) transactionPayload(form TransactionForm) map[string]interface{} {
	return map[string]interface{}{
		"date":        form.Date,
		"status":      form.Status,
		"category":    form.Category,
		"amount":      form.Amount,
		"currency":    form.Currency,
		"description": form.Description,
	}
}

// CreateTransaction adds a transaction and returns the echoed collections.
func (c *HTTPClient) CreateTransaction(ctx context.Context, form TransactionForm) (*Collections, error) {
	var out Collections
	if err := c.do(ctx, http.MethodPost, "/transactions", c.transactionPayload(form), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction replaces a transaction and returns the echoed collections.
func (c *HTTPClient) UpdateTransaction(ctx context.Context, id uint, form TransactionForm) (*Collections, error) {
	var out Collections
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/transactions/%d", id), c.transactionPayload(form), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction removes a transaction and returns the echoed collections.
func (c *HTTPClient) DeleteTransaction(ctx context.Context, id uint) (*Collections, error) {
	var out Collections
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCategory adds a category and returns the echoed collections.
func (c *HTTPClient) CreateCategory(ctx context.Context, name string) (*Collections, error) {
	var out Collections
	if err := c.do(ctx, http.MethodPost, "/categories", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory renames a category and returns the echoed collections.
func (c *HTTPClient) UpdateCategory(ctx context.Context, id uint, name string) (*Collections, error) {
	var out Collections
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory removes a category and returns the echoed collections.
func (c *HTTPClient) DeleteCategory(ctx context.Context, id uint) (*Collections, error) {
	var out Collections
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) planPayload(form PlanForm) map[string]interface{} {
	return map[string]interface{}{
		"type":        form.Type,
		"description": form.Description,
		"categories":  form.Categories,
		"from_date":   form.FromDate,
		"to_date":     form.ToDate,
		"amount":      form.Amount,
	}
}

// CreatePlan adds a plan and returns the echoed collections.
func (c *HTTPClient) CreatePlan(ctx context.Context, form PlanForm) (*Collections, error) {
	var out Collections
	if err := c.do(ctx, http.MethodPost, "/plans", c.planPayload(form), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePlan replaces a plan and returns the echoed collections.
func (c *HTTPClient) UpdatePlan(ctx context.Context, id uint, form PlanForm) (*Collections, error) {
	var out Collections
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/plans/%d", id), c.planPayload(form), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePlan removes a plan and returns the echoed collections.
func (c *HTTPClient) DeletePlan(ctx context.Context, id uint) (*Collections, error) {
	var out Collections
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/plans/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadReport asks the server to generate a report in the given format
// and fetches it. Generation is a mutating request, so the anti-forgery
// token rides along like on every other mutation.
func (c *HTTPClient) DownloadReport(ctx context.Context, format string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reports?format="+url.QueryEscape(format), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if token := c.csrfToken(); token != "" {
		req.Header.Set(csrfHeaderName, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error APIError `json:"error"`
		}
		if jsonErr := json.Unmarshal(data, &errBody); jsonErr == nil && errBody.Error.Message != "" {
			return nil, &errBody.Error
		}
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return data, nil
}
