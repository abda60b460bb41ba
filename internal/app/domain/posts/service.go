package posts

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/models"
	"github.com/FACorreiaa/techblog/internal/pkg/cache"
)

// API is the subset of the HTTP client the posts screens use.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Service wraps the /posts endpoints.
type Service struct {
	api    API
	cache  *cache.UnifiedCache[models.Post]
	limit  int
	logger *zap.Logger
}

// NewService returns a posts service. details may be nil to disable the
// post details cache; limit is the page size used by Page.
func NewService(api API, details *cache.UnifiedCache[models.Post], limit int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = 10
	}
	return &Service{api: api, cache: details, limit: limit, logger: logger}
}

// List fetches one page of posts.
func (s *Service) List(ctx context.Context, page, limit int) (*models.ListResponse[models.Post], error) {
	ctx, span := otel.Tracer("techblog/posts").Start(ctx, "Posts.List", trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("limit", limit),
	))
	defer span.End()

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var resp models.ListResponse[models.Post]
	if err := s.api.Get(ctx, "/posts", q, &resp); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list posts page %d: %w", page, err)
	}
	return &resp, nil
}

// Page adapts List to the pager's fetch signature using the configured limit.
func (s *Service) Page(ctx context.Context, page int) ([]models.Post, error) {
	resp, err := s.List(ctx, page, s.limit)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Get fetches a single post, served from cache while fresh.
func (s *Service) Get(ctx context.Context, id string) (*models.Post, error) {
	if s.cache != nil {
		if p, ok := s.cache.Get(id); ok {
			return &p, nil
		}
	}

	var p models.Post
	if err := s.api.Get(ctx, postPath(id), nil, &p); err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	if s.cache != nil {
		s.cache.Set(id, p)
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, req models.PostRequest) (*models.Post, error) {
	var p models.Post
	if err := s.api.Post(ctx, "/posts", req, &p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.logger.Info("Post created", zap.String("post_id", p.ID))
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id string, req models.PostRequest) (*models.Post, error) {
	var p models.Post
	if err := s.api.Put(ctx, postPath(id), req, &p); err != nil {
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}
	s.forget(id)
	s.logger.Info("Post updated", zap.String("post_id", id))
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, postPath(id)); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	s.forget(id)
	s.logger.Info("Post deleted", zap.String("post_id", id))
	return nil
}

// Save validates form and creates the post, or updates it when id is set.
// Validation failures return before any request is made.
func (s *Service) Save(ctx context.Context, id string, form Form, author *models.User) (*models.Post, error) {
	req, err := form.Request(author)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return s.Create(ctx, req)
	}
	return s.Update(ctx, id, req)
}

func (s *Service) forget(id string) {
	if s.cache != nil {
		s.cache.Delete(id)
	}
}

func postPath(id string) string {
	return "/posts/" + url.PathEscape(id)
}
