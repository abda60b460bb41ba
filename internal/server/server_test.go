package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/techblog/internal/app/domain/navigation"
	"github.com/FACorreiaa/techblog/internal/app/models"
	"github.com/FACorreiaa/techblog/internal/app/services"
	"github.com/FACorreiaa/techblog/internal/app/services/servicestest"
	"github.com/FACorreiaa/techblog/internal/pkg/session"
	"github.com/FACorreiaa/techblog/internal/routes"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newShell(t *testing.T) (*Server, *servicestest.Backend) {
	t.Helper()
	backend := servicestest.New(t, 5)
	c := services.NewWithStore(backend.Config(t.TempDir()), session.NewMemoryStore(), nil)
	t.Cleanup(c.Close)
	s := New(c, nil)
	t.Cleanup(s.Close)
	return s, backend
}

func do(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func navigationOf(t *testing.T, s http.Handler) routes.NavigationResponse {
	t.Helper()
	w := do(t, s, http.MethodGet, "/api/navigation", "")
	require.Equal(t, http.StatusOK, w.Code)
	var nav routes.NavigationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nav))
	return nav
}

func tabRoutes(nav routes.NavigationResponse) []navigation.Route {
	var out []navigation.Route
	for _, s := range nav.Tabs {
		out = append(out, s.Route)
	}
	return out
}

func TestShellLoadingBeforeRestore(t *testing.T) {
	s, _ := newShell(t)

	nav := navigationOf(t, s)
	assert.Equal(t, "loading", nav.Mode)
	assert.Empty(t, nav.Tabs)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/auth/login", `{}`).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz", "").Code)
}

func TestShellInstructorSessionAndSignOut(t *testing.T) {
	s, backend := newShell(t)
	s.container.Session.Restore(context.Background())

	nav := navigationOf(t, s)
	assert.Equal(t, "unauthenticated", nav.Mode)
	assert.Equal(t, navigation.RouteLogin, nav.Initial)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/feed", "").Code)

	w := do(t, s, http.MethodPost, "/api/auth/login", `{"email":"prof@x.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"roleLabel":"Professor"`)

	nav = navigationOf(t, s)
	assert.Equal(t, "authenticated", nav.Mode)
	assert.Equal(t, []navigation.Route{navigation.RouteFeed, navigation.RouteAdmin, navigation.RouteProfile}, tabRoutes(nav))

	w = do(t, s, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"posts":5,"users":2,"instructors":1,"students":1}`, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"prof@x.com"`)
	assert.Contains(t, w.Body.String(), `"name":"Usuário"`)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/auth/logout", "").Code)
	nav = navigationOf(t, s)
	assert.Equal(t, "unauthenticated", nav.Mode)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/dashboard", "").Code)
	assert.Equal(t, 1, backend.Calls("GET /users"))
}

func TestNewDuringSessionTransitions(t *testing.T) {
	ctx := context.Background()
	backend := servicestest.New(t, 2)
	c := services.NewWithStore(backend.Config(t.TempDir()), session.NewMemoryStore(), nil)
	t.Cleanup(c.Close)
	c.Session.Restore(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				_, _ = c.Session.SignIn(ctx, "prof@x.com", servicestest.Password)
				c.Session.SignOut(ctx)
			}
		}()
		for i := 0; i < 20; i++ {
			New(c, nil).Close()
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("server construction blocked against session transitions")
	}

	s := New(c, nil)
	defer s.Close()
	assert.Equal(t, navigation.ModeUnauthenticated, s.Graph().Mode)
}

func TestShellStudentCannotReachInstructorRoutes(t *testing.T) {
	s, backend := newShell(t)
	s.container.Session.Restore(context.Background())

	w := do(t, s, http.MethodPost, "/api/auth/login", `{"email":"aluno@x.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	nav := navigationOf(t, s)
	assert.Equal(t, []navigation.Route{navigation.RouteFeed, navigation.RouteProfile}, tabRoutes(nav))

	for _, probe := range []struct{ method, path string }{
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/users"},
		{http.MethodPost, "/api/users"},
		{http.MethodPut, "/api/users/u1"},
		{http.MethodDelete, "/api/users/u1"},
		{http.MethodDelete, "/api/posts/p1"},
	} {
		assert.Equal(t, http.StatusNotFound, do(t, s, probe.method, probe.path, "").Code, probe.method+" "+probe.path)
	}
	assert.Zero(t, backend.Calls("GET /users"))
	assert.Zero(t, backend.Calls("DELETE /posts/p1"))
	assert.Len(t, backend.Posts(), 5)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/feed", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/posts/p1", "").Code)
}

func TestShellRejectedLoginKeepsLoginTree(t *testing.T) {
	s, _ := newShell(t)
	s.container.Session.Restore(context.Background())

	w := do(t, s, http.MethodPost, "/api/auth/login", `{"email":"prof@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodPost, "/api/auth/login", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Preencha email e senha")

	assert.Equal(t, "unauthenticated", navigationOf(t, s).Mode)
}

func TestShellFeedPagingAndDelete(t *testing.T) {
	s, backend := newShell(t)
	s.container.Session.Restore(context.Background())
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/auth/login", `{"email":"prof@x.com","password":"secret"}`).Code)

	var feed struct {
		Posts   []models.Post `json:"posts"`
		HasMore bool          `json:"hasMore"`
	}
	w := do(t, s, http.MethodGet, "/api/feed", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Len(t, feed.Posts, 2)
	assert.True(t, feed.HasMore)

	w = do(t, s, http.MethodPost, "/api/feed/more", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Len(t, feed.Posts, 4)

	require.Equal(t, http.StatusNoContent, do(t, s, http.MethodDelete, "/api/posts/p1", "").Code)
	assert.Len(t, backend.Posts(), 4)

	w = do(t, s, http.MethodGet, "/api/feed?q=POST%203", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "p3", feed.Posts[0].ID)
}

func TestShellFormValidation(t *testing.T) {
	s, backend := newShell(t)
	s.container.Session.Restore(context.Background())
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/auth/login", `{"email":"prof@x.com","password":"secret"}`).Code)

	w := do(t, s, http.MethodPost, "/api/posts", `{"title":"  ","content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Por favor, preencha o título e o conteúdo.")
	assert.Zero(t, backend.Calls("POST /posts"))

	w = do(t, s, http.MethodPost, "/api/users", `{"name":"Ana","email":"ana.x.com","role":"STUDENT","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"email"`)
	assert.Zero(t, backend.Calls("POST /users"))

	w = do(t, s, http.MethodPost, "/api/posts", `{"title":"Go","content":"Generics"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"author":"Usuário"`)
}
