package posts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/techblog/internal/app/handlers"
	"github.com/FACorreiaa/techblog/internal/app/models"
)

// FeedResponse is the visible slice of the feed.
type FeedResponse struct {
	Posts   []models.Post `json:"posts"`
	Page    int           `json:"page"`
	HasMore bool          `json:"hasMore"`
	Query   string        `json:"query,omitempty"`
}

type Handler struct {
	*handlers.BaseHandler
	svc  *Service
	feed *Feed
}

func NewHandler(base *handlers.BaseHandler, svc *Service, feed *Feed) *Handler {
	return &Handler{
		BaseHandler: base,
		svc:         svc,
		feed:        feed,
	}
}

// ShowFeed focuses the feed, or loads ?page=N, and applies the ?q= search.
func (h *Handler) ShowFeed(c *gin.Context) {
	ctx := c.Request.Context()
	page := handlers.QueryInt(c, "page", 1)

	var err error
	if page > 1 {
		err = h.feed.LoadPage(ctx, page)
	} else {
		err = h.feed.Focus(ctx)
	}
	if err != nil {
		h.Fail(c, "feed", err)
		return
	}
	h.feed.SetQuery(c.Query("q"))
	c.JSON(http.StatusOK, h.feedResponse(c))
}

// LoadMore appends the next page to the feed.
func (h *Handler) LoadMore(c *gin.Context) {
	if err := h.feed.LoadMore(c.Request.Context()); err != nil {
		h.Fail(c, "feed more", err)
		return
	}
	c.JSON(http.StatusOK, h.feedResponse(c))
}

// ShowPost renders one post.
func (h *Handler) ShowPost(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Fail(c, "post details", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePost submits the post form for a new post.
func (h *Handler) CreatePost(c *gin.Context) {
	h.save(c, "", http.StatusCreated)
}

// UpdatePost submits the post form for an existing post.
func (h *Handler) UpdatePost(c *gin.Context) {
	h.save(c, c.Param("id"), http.StatusOK)
}

func (h *Handler) save(c *gin.Context, id string, status int) {
	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		h.BadRequest(c, err)
		return
	}
	p, err := h.svc.Save(c.Request.Context(), id, form, h.CurrentUser(c))
	if err != nil {
		h.Fail(c, "post form", err)
		return
	}
	c.JSON(status, p)
}

// DeletePost removes a post and drops it from the feed.
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.feed.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Fail(c, "delete post", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) feedResponse(c *gin.Context) FeedResponse {
	return FeedResponse{
		Posts:   h.feed.Posts(),
		Page:    h.feed.Page(),
		HasMore: h.feed.HasMore(),
		Query:   c.Query("q"),
	}
}
