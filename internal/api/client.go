package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CredentialSource supplies the bearer token for authenticated requests. An
// empty token means the request goes out unauthenticated.
type CredentialSource interface {
	AuthToken() string
}

// Client is the JSON client for the ShopBot backend.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialSource
	logger      *slog.Logger
}

// New creates a new backend client. The base URL is the API root, e.g.
// "http://localhost:5000/api".
func New(baseURL string, timeout time.Duration, credentials CredentialSource, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		credentials: credentials,
		logger:      logger,
	}
}

// errorBody is the structured error shape the backend uses for non-2xx
// responses.
type errorBody struct {
	Error string `json:"error"`
}

// Request sends one JSON request and decodes the response into out (when out
// is non-nil). Failures are always classified: a transport-level failure wraps
// ErrUnreachable, a reached-but-failing server produces an *Error with a
// human-readable message. Raw transport errors never escape to callers.
func (c *Client) Request(ctx context.Context, method, path string, body any, query map[string]string, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		values := url.Values{}
		for k, v := range query {
			values.Set(k, v)
		}
		reqURL += "?" + values.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.credentials.AuthToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := uuid.New().String()[:8]
	c.logger.Debug("api request", "id", requestID, "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "id", requestID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	c.logger.Debug("api response", "id", requestID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if err := json.Unmarshal(respBody, &eb); err == nil && eb.Error != "" {
			return &Error{Status: resp.StatusCode, Message: eb.Error}
		}
		return statusError(resp.StatusCode, resp.Status)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// Get sends a GET request, serializing params as the query string.
func (c *Client) Get(ctx context.Context, path string, params map[string]string, out any) error {
	return c.Request(ctx, http.MethodGet, path, nil, params, out)
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPost, path, body, nil, out)
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Request(ctx, http.MethodPut, path, body, nil, out)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Request(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Login exchanges credentials for an access token and user record.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var result AuthResponse
	err := c.Post(ctx, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account and returns its first access token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var result AuthResponse
	err := c.Post(ctx, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the identity behind the current bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var result meResponse
	if err := c.Get(ctx, "/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// SendMessage submits one chat message. sessionToken is empty on the first
// message of a fresh session; the response then carries the minted token.
func (c *Client) SendMessage(ctx context.Context, message, sessionToken string) (*SendMessageResponse, error) {
	body := map[string]string{"message": message}
	if sessionToken != "" {
		body["session_token"] = sessionToken
	}
	var result SendMessageResponse
	if err := c.Post(ctx, "/chat", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResetChat asks the backend for a fresh session token.
func (c *Client) ResetChat(ctx context.Context) (*ResetResponse, error) {
	var result ResetResponse
	if err := c.Post(ctx, "/chat/reset", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSessions returns the authenticated user's chat sessions.
func (c *Client) ListSessions(ctx context.Context) ([]ChatSession, error) {
	var result sessionsResponse
	if err := c.Get(ctx, "/chat/sessions", nil, &result); err != nil {
		return nil, err
	}
	return result.Sessions, nil
}

// History returns the full message history for one session token.
func (c *Client) History(ctx context.Context, sessionToken string) ([]ChatMessage, error) {
	var result historyResponse
	err := c.Get(ctx, "/chat/history", map[string]string{
		"session_token": sessionToken,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// Health probes the backend.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.Get(ctx, "/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Category string
	Brand    string
	Featured bool
	OnSale   bool
	Limit    int
}

// Products lists the catalog with optional filtering.
func (c *Client) Products(ctx context.Context, filter ProductFilter) (*ProductList, error) {
	params := map[string]string{}
	if filter.Category != "" {
		params["category"] = filter.Category
	}
	if filter.Brand != "" {
		params["brand"] = filter.Brand
	}
	if filter.Featured {
		params["featured"] = "true"
	}
	if filter.OnSale {
		params["on_sale"] = "true"
	}
	if filter.Limit > 0 {
		params["limit"] = fmt.Sprintf("%d", filter.Limit)
	}

	var result ProductList
	if err := c.Get(ctx, "/products", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchProducts searches the catalog by keyword.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) (*SearchResults, error) {
	params := map[string]string{"q": query}
	if limit > 0 {
		params["limit"] = fmt.Sprintf("%d", limit)
	}
	var result SearchResults
	if err := c.Get(ctx, "/products/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Product fetches a single catalog item by ID.
func (c *Client) Product(ctx context.Context, id int) (*Product, error) {
	var result struct {
		Product *Product `json:"product"`
	}
	if err := c.Get(ctx, fmt.Sprintf("/products/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return result.Product, nil
}

// Categories lists the distinct product categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var result categoriesResponse
	if err := c.Get(ctx, "/products/categories", nil, &result); err != nil {
		return nil, err
	}
	return result.Categories, nil
}

// Brands lists the distinct product brands.
func (c *Client) Brands(ctx context.Context) ([]string, error) {
	var result brandsResponse
	if err := c.Get(ctx, "/products/brands", nil, &result); err != nil {
		return nil, err
	}
	return result.Brands, nil
}
