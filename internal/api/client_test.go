package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityaverma/shopbot-go/internal/api"
)

// staticCredentials is a test CredentialSource with a fixed token.
type staticCredentials string

func (c staticCredentials) AuthToken() string { return string(c) }

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestClient(url string, token string) *api.Client {
	return api.New(url, 5*time.Second, staticCredentials(token), testLogger())
}

func TestRequestSetsBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "tok-abc")
	require.NoError(t, c.Get(context.Background(), "/health", nil, nil))
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestRequestOmitsEmptyBearer(t *testing.T) {
	var gotAuth string
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	require.NoError(t, c.Get(context.Background(), "/health", nil, nil))
	assert.False(t, hadAuth, "unauthenticated request must carry no Authorization header, got %q", gotAuth)
}

func TestRequestParsesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid username or password"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	err := c.Post(context.Background(), "/auth/login", map[string]string{}, nil)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid username or password", apiErr.Message)
	assert.False(t, api.IsUnreachable(err))
}

func TestRequestSynthesizesMessageForBareStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>nginx</html>`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	err := c.Get(context.Background(), "/health", nil, nil)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestRequestClassifiesUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := newTestClient(srv.URL, "")
	err := c.Get(context.Background(), "/health", nil, nil)

	require.Error(t, err)
	assert.True(t, api.IsUnreachable(err))
	var apiErr *api.Error
	assert.False(t, errors.As(err, &apiErr), "transport failures must not look like server rejections")
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Adi", body["username"])
		assert.Equal(t, "secret1", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "jwt-1",
			"user":         map[string]any{"id": 1, "username": "Adi"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	resp, err := c.Login(context.Background(), "Adi", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", resp.AccessToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Adi", resp.User.Username)
}

func TestSendMessageOmitsEmptySessionToken(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]any{
			"response":      map[string]any{"text": "hi"},
			"session_token": "sess-new",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "tok")
	resp, err := c.SendMessage(context.Background(), "hello", "")
	require.NoError(t, err)

	_, hasToken := body["session_token"]
	assert.False(t, hasToken, "first message of a fresh thread must not send a session token")
	assert.Equal(t, "sess-new", resp.SessionToken)
	assert.Equal(t, "hi", resp.Response.Text)
}

func TestSendMessageCarriesSessionToken(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{"text": "sure"},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "tok")
	_, err := c.SendMessage(context.Background(), "more", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", body["session_token"])
}

func TestHistoryQueryParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/history", r.URL.Path)
		assert.Equal(t, "sess-7", r.URL.Query().Get("session_token"))
		json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]any{
				{"id": 1, "message_type": "user", "content": "hi", "timestamp": "2026-08-30T10:00:00"},
				{"id": 2, "message_type": "bot", "content": "hello", "timestamp": "2026-08-30T10:00:01"},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "tok")
	messages, err := c.History(context.Background(), "sess-7")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].MessageType)
	assert.Equal(t, "hello", messages[1].Content)
}

func TestProductsFilterQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "laptops", q.Get("category"))
		assert.Equal(t, "true", q.Get("on_sale"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Empty(t, q.Get("brand"))
		json.NewEncoder(w).Encode(map[string]any{
			"products":    []map[string]any{{"id": 1, "name": "X1", "price": 999.0, "display_price": 899.0}},
			"total_count": 1,
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	list, err := c.Products(context.Background(), api.ProductFilter{Category: "laptops", OnSale: true, Limit: 5})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, 899.0, list.Products[0].DisplayPrice)
}

func TestSearchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search", r.URL.Path)
		assert.Equal(t, "gaming laptop", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(map[string]any{
			"products":      []map[string]any{},
			"query":         "gaming laptop",
			"total_results": 0,
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	results, err := c.SearchProducts(context.Background(), "gaming laptop", 0)
	require.NoError(t, err)
	assert.Equal(t, "gaming laptop", results.Query)
	assert.Empty(t, results.Products)
}
