package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, "/posts/p1"))
	c.SetToken("abc")
	require.NoError(t, c.Delete(ctx, "/posts/p1"))
	c.ClearToken()
	require.NoError(t, c.Delete(ctx, "/posts/p1"))

	assert.Equal(t, []string{"", "Bearer abc", ""}, gotAuth)
}

func TestClientGetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_ = json.NewEncoder(w).Encode(models.ListResponse[models.Post]{
			Data:     []models.Post{{ID: "p1", Title: "Hello"}},
			Total:    1,
			Page:     2,
			LastPage: 2,
		})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/"})
	var out models.ListResponse[models.Post]
	require.NoError(t, c.Get(context.Background(), "posts", url.Values{"page": {"2"}}, &out))

	require.Len(t, out.Data, 1)
	assert.Equal(t, "p1", out.Data[0].ID)
	assert.Equal(t, 2, out.LastPage)
}

func TestClientPostSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "prof@x.com", body.Email)
		_ = json.NewEncoder(w).Encode(models.AuthResponse{AccessToken: "tok"})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	var out models.AuthResponse
	require.NoError(t, c.Post(context.Background(), "/auth/login", models.LoginRequest{Email: "prof@x.com", Password: "secret"}, &out))
	assert.Equal(t, "tok", out.AccessToken)
}

func TestClientNon2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	err := c.Get(context.Background(), "/users", nil, &struct{}{})

	var httpErr *models.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Contains(t, httpErr.Body, "Unauthorized")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestClientTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	err := c.Get(context.Background(), "/posts", nil, nil)

	var netErr *models.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestClientUnreachableIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := New(Config{BaseURL: addr, Timeout: time.Second})
	err := c.Delete(context.Background(), "/posts/p1")
	assert.True(t, errors.Is(err, models.ErrNetwork))
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/posts/:id", routeLabel("/posts/abc"))
	assert.Equal(t, "/posts", routeLabel("/posts"))
	assert.Equal(t, "/auth/login", routeLabel("/auth/login"))
}
