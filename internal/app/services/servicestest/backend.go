// Package servicestest runs an in-memory blog backend for end-to-end tests.
package servicestest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/FACorreiaa/techblog/internal/app/domain/token/tokentest"
	"github.com/FACorreiaa/techblog/internal/app/models"
	"github.com/FACorreiaa/techblog/internal/pkg/config"
)

// Password is accepted for every account.
const Password = "secret"

// Backend serves /auth/login, /posts and /users. Accounts whose email
// starts with "prof" sign in as instructors.
type Backend struct {
	URL string

	mu    sync.Mutex
	posts []models.Post
	users []models.User
	calls map[string]int
	auth  map[string]string
}

// New starts a backend with n posts and one instructor and one student.
func New(t testing.TB, n int) *Backend {
	b := &Backend{
		calls: map[string]int{},
		auth:  map[string]string{},
		users: []models.User{
			{ID: "u1", Name: "Prof", Email: "prof@x.com", Role: models.RoleInstructor},
			{ID: "u2", Name: "Aluno", Email: "aluno@x.com", Role: models.RoleStudent},
		},
	}
	for i := 1; i <= n; i++ {
		b.posts = append(b.posts, models.Post{
			ID:        fmt.Sprintf("p%d", i),
			Title:     fmt.Sprintf("Post %d", i),
			Content:   "body",
			Author:    "Prof",
			CreatedAt: time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC),
		})
	}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	b.URL = srv.URL
	return b
}

// Config points a client config at the backend.
func (b *Backend) Config(sessionDir string) *config.Config {
	return &config.Config{
		API:           config.APIConfig{BaseURL: b.URL, Timeout: 2 * time.Second},
		Session:       config.SessionConfig{Dir: sessionDir},
		Shell:         config.ShellConfig{Port: "0"},
		Observability: config.ObservabilityConfig{ServiceName: "techblog-test"},
		PageLimit:     2,
		LogLevel:      "error",
	}
}

// Calls reports how many times "METHOD /path" was requested.
func (b *Backend) Calls(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

// LastAuthorization is the Authorization header of the last request to key.
func (b *Backend) LastAuthorization(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.auth[key]
}

func (b *Backend) Posts() []models.Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Post(nil), b.posts...)
}

func (b *Backend) Users() []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.User(nil), b.users...)
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := r.Method + " " + r.URL.Path
	b.calls[key]++
	b.auth[key] = r.Header.Get("Authorization")

	switch {
	case r.URL.Path == "/auth/login":
		b.login(w, r)
	case r.URL.Path == "/posts" || strings.HasPrefix(r.URL.Path, "/posts/"):
		if !b.authorized(w, r) {
			return
		}
		b.servePosts(w, r, strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/posts"), "/"))
	case r.URL.Path == "/users" || strings.HasPrefix(r.URL.Path, "/users/"):
		if !b.authorized(w, r) {
			return
		}
		b.serveUsers(w, r, strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/users"), "/"))
	default:
		http.NotFound(w, r)
	}
}

func (b *Backend) authorized(w http.ResponseWriter, r *http.Request) bool {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != Password {
		http.Error(w, `{"message":"Invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	for _, u := range b.users {
		if u.Email != req.Email {
			continue
		}
		tok := tokentest.Student(u.ID, u.Email)
		if u.Role == models.RoleInstructor {
			tok = tokentest.Instructor(u.ID, u.Email)
		}
		writeJSON(w, http.StatusCreated, models.AuthResponse{AccessToken: tok})
		return
	}
	http.Error(w, `{"message":"Invalid credentials"}`, http.StatusUnauthorized)
}

func (b *Backend) servePosts(w http.ResponseWriter, r *http.Request, id string) {
	switch {
	case r.Method == http.MethodGet && id == "":
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		page, limit = max(page, 1), max(limit, 1)
		start := (page - 1) * limit
		data := []models.Post{}
		if start < len(b.posts) {
			data = b.posts[start:min(start+limit, len(b.posts))]
		}
		writeJSON(w, http.StatusOK, models.ListResponse[models.Post]{
			Data: data, Total: len(b.posts), Page: page, LastPage: (len(b.posts) + limit - 1) / limit,
		})
	case r.Method == http.MethodGet:
		for _, p := range b.posts {
			if p.ID == id {
				writeJSON(w, http.StatusOK, p)
				return
			}
		}
		http.NotFound(w, r)
	case r.Method == http.MethodPost:
		var req models.PostRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		p := models.Post{ID: fmt.Sprintf("p%d", len(b.posts)+1), Title: req.Title, Content: req.Content, Summary: req.Summary, Author: req.Author}
		b.posts = append(b.posts, p)
		writeJSON(w, http.StatusCreated, p)
	case r.Method == http.MethodPut:
		var req models.PostRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for i := range b.posts {
			if b.posts[i].ID == id {
				b.posts[i].Title, b.posts[i].Content, b.posts[i].Summary = req.Title, req.Content, req.Summary
				writeJSON(w, http.StatusOK, b.posts[i])
				return
			}
		}
		http.NotFound(w, r)
	case r.Method == http.MethodDelete:
		for i := range b.posts {
			if b.posts[i].ID == id {
				b.posts = append(b.posts[:i], b.posts[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.NotFound(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *Backend) serveUsers(w http.ResponseWriter, r *http.Request, id string) {
	switch {
	case r.Method == http.MethodGet && id == "":
		writeJSON(w, http.StatusOK, models.ListResponse[models.User]{Data: b.users, Total: len(b.users), Page: 1, LastPage: 1})
	case r.Method == http.MethodPost:
		var req models.CreateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		u := models.User{ID: fmt.Sprintf("u%d", len(b.users)+1), Name: req.Name, Email: req.Email, Role: req.Role}
		b.users = append(b.users, u)
		writeJSON(w, http.StatusCreated, u)
	case r.Method == http.MethodPut:
		var req models.UpdateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for i := range b.users {
			if b.users[i].ID == id {
				b.users[i].Name, b.users[i].Email, b.users[i].Role = req.Name, req.Email, req.Role
				writeJSON(w, http.StatusOK, b.users[i])
				return
			}
		}
		http.NotFound(w, r)
	case r.Method == http.MethodDelete:
		for i := range b.users {
			if b.users[i].ID == id {
				b.users = append(b.users[:i], b.users[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.NotFound(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
