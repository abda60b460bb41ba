package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/techblog/internal/app/handlers"
)

type Handler struct {
	*handlers.BaseHandler
	Service UserService
	manager *Manager
}

func NewHandler(base *handlers.BaseHandler, service UserService, manager *Manager) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
		manager:     manager,
	}
}

// ListUsers reloads the list and applies ?role=TODOS|PROFESSOR|STUDENT.
func (h *Handler) ListUsers(c *gin.Context) {
	h.manager.SetFilter(ParseFilter(c.Query("role")))
	if err := h.manager.Load(c.Request.Context()); err != nil {
		h.Fail(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filter": h.manager.Filter(),
		"users":  h.manager.Users(),
	})
}

func (h *Handler) CreateUser(c *gin.Context) {
	h.save(c, "", http.StatusCreated)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	h.save(c, c.Param("id"), http.StatusOK)
}

func (h *Handler) save(c *gin.Context, id string, status int) {
	form := NewForm()
	if err := c.ShouldBindJSON(&form); err != nil {
		h.BadRequest(c, err)
		return
	}
	u, err := Save(c.Request.Context(), h.Service, id, form)
	if err != nil {
		h.Fail(c, "user form", err)
		return
	}
	c.JSON(status, u)
}

// DeleteUser removes an account and answers with the reloaded list.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.manager.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Fail(c, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filter": h.manager.Filter(),
		"users":  h.manager.Users(),
	})
}
