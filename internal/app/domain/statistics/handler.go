package statistics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/techblog/internal/app/handlers"
)

type Handler struct {
	*handlers.BaseHandler
	service Service
}

func NewHandler(base *handlers.BaseHandler, service Service) *Handler {
	return &Handler{BaseHandler: base, service: service}
}

// ShowDashboard renders the admin overview.
func (h *Handler) ShowDashboard(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.Fail(c, "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
