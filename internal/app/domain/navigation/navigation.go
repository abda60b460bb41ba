// Package navigation builds the navigation graph for the current session.
// Which routes exist is decided once per build from a role table; routes
// left out of the graph cannot be reached, not merely hidden.
package navigation

import (
	"slices"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

// Route identifies a screen.
type Route string

const (
	RouteLogin       Route = "Login"
	RouteMainTabs    Route = "MainTabs"
	RouteFeed        Route = "Feed"
	RouteAdmin       Route = "AdminDashboard"
	RouteProfile     Route = "Profile"
	RoutePostDetails Route = "PostDetails"
	RoutePostForm    Route = "PostForm"
	RouteManageUsers Route = "ManageUsers"
	RouteManagePosts Route = "ManagePosts"
	RouteUserForm    Route = "UserForm"
)

// Mode is which tree is mounted.
type Mode int

const (
	ModeLoading Mode = iota
	ModeUnauthenticated
	ModeAuthenticated
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeUnauthenticated:
		return "unauthenticated"
	case ModeAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Screen is one registered route.
type Screen struct {
	Route Route  `json:"route"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
	Tab   bool   `json:"tab"`
}

var screens = map[Route]Screen{
	RouteLogin:       {Route: RouteLogin, Title: "Login"},
	RouteMainTabs:    {Route: RouteMainTabs, Title: "Tech Blog"},
	RouteFeed:        {Route: RouteFeed, Title: "Postagens", Icon: "newspaper", Tab: true},
	RouteAdmin:       {Route: RouteAdmin, Title: "Admin", Icon: "grid", Tab: true},
	RouteProfile:     {Route: RouteProfile, Title: "Meu Perfil", Icon: "person", Tab: true},
	RoutePostDetails: {Route: RoutePostDetails, Title: "Leitura"},
	RoutePostForm:    {Route: RoutePostForm, Title: "Novo Post"},
	RouteManageUsers: {Route: RouteManageUsers, Title: "Gerenciar Usuários"},
	RouteManagePosts: {Route: RouteManagePosts, Title: "Gerenciar Posts"},
	RouteUserForm:    {Route: RouteUserForm, Title: "Dados do Usuário"},
}

// Ordered route lists per tree. Tab order is the order tabs are shown in.
var (
	unauthenticatedRoutes = []Route{RouteLogin}

	signedInRoutes = []Route{RouteMainTabs, RouteFeed, RouteProfile, RoutePostDetails, RoutePostForm}

	roleRoutes = map[models.Role][]Route{
		models.RoleInstructor: {RouteAdmin, RouteManageUsers, RouteManagePosts, RouteUserForm},
		models.RoleStudent:    nil,
	}

	tabOrder = []Route{RouteFeed, RouteAdmin, RouteProfile}
)

// Graph is the mounted navigation tree.
type Graph struct {
	Mode    Mode
	User    *models.User
	Tabs    []Screen
	Screens []Screen

	routes map[Route]Screen
}

// Build returns the graph for a session: a loading graph with no routes while
// initializing, the login tree without a user, and the signed-in tree filtered
// by the user's role otherwise.
func Build(initializing bool, user *models.User) Graph {
	switch {
	case initializing:
		return Graph{Mode: ModeLoading}
	case user == nil:
		return newGraph(ModeUnauthenticated, nil, unauthenticatedRoutes)
	}
	return newGraph(ModeAuthenticated, user, RoutesFor(user.Role))
}

// RoutesFor lists the routes a signed-in user of role can reach.
func RoutesFor(role models.Role) []Route {
	return append(slices.Clone(signedInRoutes), roleRoutes[role]...)
}

func newGraph(mode Mode, user *models.User, reachable []Route) Graph {
	g := Graph{
		Mode:   mode,
		User:   user,
		routes: make(map[Route]Screen, len(reachable)),
	}
	for _, r := range reachable {
		s := screens[r]
		g.routes[r] = s
		if !s.Tab {
			g.Screens = append(g.Screens, s)
		}
	}
	for _, r := range tabOrder {
		if s, ok := g.routes[r]; ok {
			g.Tabs = append(g.Tabs, s)
		}
	}
	return g
}

// Reachable reports whether r is registered in the graph.
func (g Graph) Reachable(r Route) bool {
	_, ok := g.routes[r]
	return ok
}

// Screen returns the registered screen for r.
func (g Graph) Screen(r Route) (Screen, bool) {
	s, ok := g.routes[r]
	return s, ok
}

// Initial is the route shown when the tree is mounted.
func (g Graph) Initial() (Route, bool) {
	switch g.Mode {
	case ModeUnauthenticated:
		return RouteLogin, true
	case ModeAuthenticated:
		return RouteFeed, true
	}
	return "", false
}

// Routes lists every reachable route, tabs first.
func (g Graph) Routes() []Route {
	out := make([]Route, 0, len(g.routes))
	for _, s := range g.Tabs {
		out = append(out, s.Route)
	}
	for _, s := range g.Screens {
		out = append(out, s.Route)
	}
	return out
}
