package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/domain/token"
	"github.com/FACorreiaa/techblog/internal/app/handlers"
	"github.com/FACorreiaa/techblog/internal/app/models"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// SessionResponse describes the session the shell is serving.
type SessionResponse struct {
	State     string       `json:"state"`
	User      *models.User `json:"user,omitempty"`
	Initials  string       `json:"initials,omitempty"`
	RoleLabel string       `json:"roleLabel,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	Expired   bool         `json:"expired,omitempty"`
}

// TokenSource exposes the bearer token of the current session.
type TokenSource interface {
	Token() string
}

type AuthHandlers struct {
	*handlers.BaseHandler
	session Session
	tokens  TokenSource
}

func NewAuthHandlers(base *handlers.BaseHandler, session Session, tokens TokenSource) *AuthHandlers {
	return &AuthHandlers{
		BaseHandler: base,
		session:     session,
		tokens:      tokens,
	}
}

// LoginHandler signs in with email and password. The shell is remounted
// with the signed-in routes once the lifecycle publishes the transition.
func (h *AuthHandlers) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	h.Logger.Info("Login attempt", zap.String("remote_addr", c.ClientIP()))
	user, err := h.session.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Fail(c, "login", err)
		return
	}

	h.Logger.Info("Successful login", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	c.JSON(http.StatusOK, h.describe(Snapshot{State: StateAuthenticated, User: user}))
}

// LogoutHandler ends the session. It never fails.
func (h *AuthHandlers) LogoutHandler(c *gin.Context) {
	h.session.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, SessionResponse{State: StateUnauthenticated.String()})
}

// SessionHandler reports the current lifecycle state.
func (h *AuthHandlers) SessionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.describe(h.session.Snapshot()))
}

// ProfileHandler renders the signed-in user.
func (h *AuthHandlers) ProfileHandler(c *gin.Context) {
	user := h.CurrentUser(c)
	if user == nil {
		h.Fail(c, "profile", models.ErrNoSession)
		return
	}
	c.JSON(http.StatusOK, h.describe(Snapshot{State: StateAuthenticated, User: user}))
}

func (h *AuthHandlers) describe(s Snapshot) SessionResponse {
	resp := SessionResponse{State: s.State.String(), User: s.User}
	if s.User == nil {
		return resp
	}
	resp.Initials = s.User.Initials()
	resp.RoleLabel = s.User.Role.Label()
	if h.tokens == nil {
		return resp
	}
	if claims, err := token.Decode(h.tokens.Token()); err == nil {
		if exp := claims.ExpiresAt(); !exp.IsZero() {
			resp.ExpiresAt = &exp
			resp.Expired = claims.Expired(time.Now())
		}
	}
	return resp
}
