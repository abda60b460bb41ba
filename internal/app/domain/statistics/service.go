package statistics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// PostCounter reports the total number of posts on the backend.
type PostCounter interface {
	List(ctx context.Context, page, limit int) (*models.ListResponse[models.Post], error)
}

// UserLister lists every account visible to the signed-in instructor.
type UserLister interface {
	List(ctx context.Context) (*models.ListResponse[models.User], error)
}

// Overview is the admin dashboard summary.
type Overview struct {
	Posts       int `json:"posts"`
	Users       int `json:"users"`
	Instructors int `json:"instructors"`
	Students    int `json:"students"`
}

type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type ServiceImpl struct {
	posts  PostCounter
	users  UserLister
	logger *zap.Logger
}

func NewService(posts PostCounter, users UserLister, logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{
		posts:  posts,
		users:  users,
		logger: logger,
	}
}

// Overview loads the post total and the per-role user counts concurrently.
// Either failure cancels the other request.
func (s *ServiceImpl) Overview(ctx context.Context) (*Overview, error) {
	ctx, span := otel.Tracer("techblog/statistics").Start(ctx, "Overview")
	defer span.End()
	l := s.logger.With(zap.String("method", "Overview"))

	var (
		out   Overview
		users []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.posts.List(gctx, 1, 1)
		if err != nil {
			return fmt.Errorf("count posts: %w", err)
		}
		out.Posts = resp.Total
		if out.Posts == 0 {
			out.Posts = len(resp.Data)
		}
		return nil
	})
	g.Go(func() error {
		resp, err := s.users.List(gctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		users = resp.Data
		return nil
	})
	if err := g.Wait(); err != nil {
		l.Error("Failed to load dashboard overview", zap.Error(err))
		span.RecordError(err)
		return nil, err
	}

	out.Users = len(users)
	for _, u := range users {
		switch u.Role {
		case models.RoleInstructor:
			out.Instructors++
		case models.RoleStudent:
			out.Students++
		}
	}
	span.SetAttributes(attribute.Int("posts", out.Posts), attribute.Int("users", out.Users))
	l.Info("Successfully retrieved dashboard overview")
	return &out, nil
}
