package user

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

// API is the subset of the HTTP client the users screens use.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Ensure implementation satisfies the interface
var _ UserService = (*ServiceUserImpl)(nil)

// UserService wraps the /users endpoints.
type UserService interface {
	List(ctx context.Context) (*models.ListResponse[models.User], error)
	Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// ServiceUserImpl provides the implementation for UserService.
type ServiceUserImpl struct {
	logger *zap.Logger
	api    API
}

// NewUserService creates a new user service instance.
func NewUserService(api API, logger *zap.Logger) *ServiceUserImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceUserImpl{
		logger: logger,
		api:    api,
	}
}

// List fetches the accounts visible to the signed-in instructor.
func (s *ServiceUserImpl) List(ctx context.Context) (*models.ListResponse[models.User], error) {
	l := s.logger.With(zap.String("method", "List"))
	l.Debug("Fetching users")

	var resp models.ListResponse[models.User]
	if err := s.api.Get(ctx, "/users", nil, &resp); err != nil {
		l.Warn("Failed to fetch users", zap.Error(err))
		return nil, fmt.Errorf("error fetching users: %w", err)
	}
	return &resp, nil
}

// Create registers a new account.
func (s *ServiceUserImpl) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("email", req.Email))

	var u models.User
	if err := s.api.Post(ctx, "/users", req, &u); err != nil {
		l.Warn("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	l.Info("User created", zap.String("userID", u.ID))
	return &u, nil
}

// Update edits an account; the password changes only when set.
func (s *ServiceUserImpl) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.String("userID", id))

	var u models.User
	if err := s.api.Put(ctx, userPath(id), req, &u); err != nil {
		l.Warn("Failed to update user", zap.Error(err))
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	l.Info("User updated")
	return &u, nil
}

// Delete removes an account.
func (s *ServiceUserImpl) Delete(ctx context.Context, id string) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.String("userID", id))

	if err := s.api.Delete(ctx, userPath(id)); err != nil {
		l.Warn("Failed to delete user", zap.Error(err))
		return fmt.Errorf("error deleting user: %w", err)
	}
	l.Info("User deleted")
	return nil
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}
