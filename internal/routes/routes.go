package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/domain/auth"
	"github.com/FACorreiaa/techblog/internal/app/domain/navigation"
	"github.com/FACorreiaa/techblog/internal/app/domain/posts"
	"github.com/FACorreiaa/techblog/internal/app/domain/statistics"
	"github.com/FACorreiaa/techblog/internal/app/domain/user"
	"github.com/FACorreiaa/techblog/internal/app/handlers"
	"github.com/FACorreiaa/techblog/internal/app/services"
)

type AppHandlers struct {
	Auth      *auth.AuthHandlers
	Posts     *posts.Handler
	Users     *user.Handler
	Dashboard *statistics.Handler

	feed *posts.Feed
}

// NewAppHandlers builds fresh screen controllers for one mounted tree.
func NewAppHandlers(c *services.Container, log *zap.Logger) *AppHandlers {
	base := handlers.NewBaseHandler(log)
	feed := posts.NewFeed(c.Posts, log.Named("feed"))
	return &AppHandlers{
		Auth:      auth.NewAuthHandlers(base, c.Session, c.Session),
		Posts:     posts.NewHandler(base, c.Posts, feed),
		Users:     user.NewHandler(base, c.Users, user.NewManager(c.Users, log.Named("manage-users"))),
		Dashboard: statistics.NewHandler(base, c.Stats),
		feed:      feed,
	}
}

// Close drops results of feed requests still in flight.
func (h *AppHandlers) Close() {
	h.feed.Close()
}

// screenRoutes lists the endpoints each screen needs. A screen's endpoints
// are registered only when the screen is in the navigation graph.
var screenRoutes = map[navigation.Route]func(api *gin.RouterGroup, h *AppHandlers){
	navigation.RouteLogin: func(api *gin.RouterGroup, h *AppHandlers) {
		api.POST("/auth/login", h.Auth.LoginHandler)
	},
	navigation.RouteFeed: func(api *gin.RouterGroup, h *AppHandlers) {
		api.GET("/feed", h.Posts.ShowFeed)
		api.POST("/feed/more", h.Posts.LoadMore)
	},
	navigation.RouteProfile: func(api *gin.RouterGroup, h *AppHandlers) {
		api.GET("/profile", h.Auth.ProfileHandler)
		api.POST("/auth/logout", h.Auth.LogoutHandler)
	},
	navigation.RoutePostDetails: func(api *gin.RouterGroup, h *AppHandlers) {
		api.GET("/posts/:id", h.Posts.ShowPost)
	},
	navigation.RoutePostForm: func(api *gin.RouterGroup, h *AppHandlers) {
		api.POST("/posts", h.Posts.CreatePost)
		api.PUT("/posts/:id", h.Posts.UpdatePost)
	},
	navigation.RouteAdmin: func(api *gin.RouterGroup, h *AppHandlers) {
		api.GET("/dashboard", h.Dashboard.ShowDashboard)
	},
	navigation.RouteManagePosts: func(api *gin.RouterGroup, h *AppHandlers) {
		api.DELETE("/posts/:id", h.Posts.DeletePost)
	},
	navigation.RouteManageUsers: func(api *gin.RouterGroup, h *AppHandlers) {
		api.GET("/users", h.Users.ListUsers)
		api.DELETE("/users/:id", h.Users.DeleteUser)
	},
	navigation.RouteUserForm: func(api *gin.RouterGroup, h *AppHandlers) {
		api.POST("/users", h.Users.CreateUser)
		api.PUT("/users/:id", h.Users.UpdateUser)
	},
}

// NavigationResponse is the mounted tree as the shell exposes it.
type NavigationResponse struct {
	Mode    string              `json:"mode"`
	Initial navigation.Route    `json:"initial,omitempty"`
	Tabs    []navigation.Screen `json:"tabs"`
	Screens []navigation.Screen `json:"screens"`
}

// Setup mounts the session endpoints and the endpoints of every screen
// reachable in graph. Anything else answers 404.
func Setup(r *gin.Engine, h *AppHandlers, graph navigation.Graph, log *zap.Logger) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/session", h.Auth.SessionHandler)
	api.GET("/navigation", func(c *gin.Context) {
		initial, _ := graph.Initial()
		c.JSON(http.StatusOK, NavigationResponse{
			Mode:    graph.Mode.String(),
			Initial: initial,
			Tabs:    graph.Tabs,
			Screens: graph.Screens,
		})
	})

	for _, route := range graph.Routes() {
		if mount, ok := screenRoutes[route]; ok {
			mount(api, h)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not available in this session"})
	})

	log.Debug("Shell routes mounted",
		zap.String("mode", graph.Mode.String()),
		zap.Int("screens", len(graph.Routes())))
}
