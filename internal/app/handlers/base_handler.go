package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/middleware"
	"github.com/FACorreiaa/techblog/internal/app/models"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseHandler{Logger: logger}
}

// StatusFor maps a domain error to the status the shell answers with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrMalformedToken):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNetwork):
		return http.StatusBadGateway
	}
	var httpErr *models.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status >= 400 {
		return httpErr.Status
	}
	return http.StatusInternalServerError
}

// Fail writes err as {"error": ...}. Validation errors also carry the field.
func (h *BaseHandler) Fail(c *gin.Context, operation string, err error) {
	status := StatusFor(err)
	l := h.Logger.With(zap.String("operation", operation), zap.Int("status", status))
	if status >= http.StatusInternalServerError {
		l.Error("Shell operation failed", zap.Error(err))
	} else {
		l.Warn("Shell operation rejected", zap.Error(err))
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(status, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// BadRequest rejects a malformed request body or query.
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// CurrentUser is the signed-in user the shell was built for.
func (h *BaseHandler) CurrentUser(c *gin.Context) *models.User {
	return middleware.GetUserFromContext(c)
}

// QueryInt reads a positive integer query parameter, falling back to def.
func QueryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}
