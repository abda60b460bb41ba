package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/domain/token"
	"github.com/FACorreiaa/techblog/internal/app/models"
	"github.com/FACorreiaa/techblog/internal/app/observability/metrics"
	"github.com/FACorreiaa/techblog/internal/pkg/session"
)

// LoginPath is the backend authentication endpoint.
const LoginPath = "/auth/login"

// Ensure implementation satisfies the interface
var _ Session = (*Lifecycle)(nil)

// Session is what screens and the router see of the signed-in state.
type Session interface {
	Snapshot() Snapshot
	Restore(ctx context.Context) Snapshot
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	SignOut(ctx context.Context)
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}

// Transport is the part of the HTTP client the lifecycle drives. SetToken
// and ClearToken are called from nowhere else.
type Transport interface {
	Post(ctx context.Context, path string, body, out any) error
	SetToken(token string)
	ClearToken()
}

// Lifecycle is the single writer of the process session: current user,
// persisted pair and the client's bearer header all change together under mu.
type Lifecycle struct {
	logger *zap.Logger
	store  session.Store
	client Transport

	mu    sync.RWMutex
	state State
	user  *models.User
	token string

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObsID int
}

// NewLifecycle returns a lifecycle in the INITIALIZING state.
func NewLifecycle(store session.Store, client Transport, logger *zap.Logger) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lifecycle{
		logger:    logger,
		store:     store,
		client:    client,
		state:     StateInitializing,
		observers: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state and user.
func (l *Lifecycle) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{State: l.state, User: cloneUser(l.user)}
}

// Token returns the bearer token of the current session, if any.
func (l *Lifecycle) Token() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.token
}

// Restore reloads the persisted pair. Both present means AUTHENTICATED with
// the token attached; anything else, including store failures, means
// UNAUTHENTICATED. Calling it again with the same stored pair yields the
// same snapshot.
func (l *Lifecycle) Restore(ctx context.Context) Snapshot {
	lg := l.logger.With(zap.String("method", "Restore"))
	ctx, span := otel.Tracer("techblog/auth").Start(ctx, "Lifecycle.Restore")
	defer span.End()

	l.mu.Lock()
	user, tok, err := l.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrNoSession) {
			lg.Warn("Session store unreadable, starting signed out", zap.Error(err))
			span.RecordError(err)
		}
		l.client.ClearToken()
		l.setLocked(StateUnauthenticated, nil, "")
	} else {
		l.client.SetToken(tok)
		l.setLocked(StateAuthenticated, user, tok)
		lg.Debug("Session restored", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	}
	snap := l.publishLocked(ctx)

	span.SetAttributes(attribute.String("state", snap.State.String()))
	return snap
}

// SignIn exchanges credentials for an access token, derives the user from
// its claims, persists the pair and attaches the token. On any error the
// previous state is left untouched.
func (l *Lifecycle) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	lg := l.logger.With(zap.String("method", "SignIn"), zap.String("email", email))
	ctx, span := otel.Tracer("techblog/auth").Start(ctx, "Lifecycle.SignIn")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &models.ValidationError{Field: "email", Message: "Preencha email e senha"}
	}
	if password == "" {
		return nil, &models.ValidationError{Field: "password", Message: "Preencha email e senha"}
	}

	// 1. Exchange credentials
	var resp models.AuthResponse
	err := l.client.Post(ctx, LoginPath, models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login request failed")
		var httpErr *models.HTTPError
		if errors.As(err, &httpErr) {
			lg.Warn("Login rejected", zap.Int("status", httpErr.Status))
			return nil, &models.AuthError{Status: httpErr.Status, Err: err}
		}
		lg.Warn("Login request failed", zap.Error(err))
		return nil, err
	}
	if resp.AccessToken == "" {
		span.SetStatus(codes.Error, "no access token")
		return nil, &models.AuthError{Err: errors.New("response carried no access_token")}
	}

	// 2. Decode claims into the local user
	claims, err := token.Decode(resp.AccessToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed token")
		lg.Warn("Backend issued an undecodable token", zap.Error(err))
		return nil, err
	}
	user := claims.User()

	// 3. Persist and attach together
	l.mu.Lock()
	if err := l.store.Save(ctx, user, resp.AccessToken); err != nil {
		l.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist session")
		lg.Error("Failed to persist session", zap.Error(err))
		return nil, fmt.Errorf("persist session: %w", err)
	}
	l.client.SetToken(resp.AccessToken)
	l.setLocked(StateAuthenticated, user, resp.AccessToken)
	lg.Info("Signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	l.publishLocked(ctx)

	span.SetAttributes(attribute.String("role", string(user.Role)))
	return cloneUser(user), nil
}

// SignOut clears the persisted pair and the bearer header. It never fails;
// a store error is logged and the in-memory session is dropped anyway.
func (l *Lifecycle) SignOut(ctx context.Context) {
	lg := l.logger.With(zap.String("method", "SignOut"))
	ctx, span := otel.Tracer("techblog/auth").Start(ctx, "Lifecycle.SignOut")
	defer span.End()

	l.mu.Lock()
	if err := l.store.Clear(ctx); err != nil {
		span.RecordError(err)
		lg.Error("Failed to clear session store", zap.Error(err))
	}
	l.client.ClearToken()
	l.setLocked(StateUnauthenticated, nil, "")
	lg.Info("Signed out")
	l.publishLocked(ctx)
}

// Subscribe registers fn to run after every transition, in the order the
// transitions happen. fn must not call SignIn, SignOut or Restore.
// The returned func removes it.
func (l *Lifecycle) Subscribe(fn func(Snapshot)) func() {
	l.obsMu.Lock()
	id := l.nextObsID
	l.nextObsID++
	l.observers[id] = fn
	l.obsMu.Unlock()

	return func() {
		l.obsMu.Lock()
		delete(l.observers, id)
		l.obsMu.Unlock()
	}
}

func (l *Lifecycle) setLocked(state State, user *models.User, tok string) {
	l.state = state
	l.user = user
	l.token = tok
}

// publishLocked must be called with mu held and releases it. obsMu is taken
// before mu is dropped so observers see transitions in order.
func (l *Lifecycle) publishLocked(ctx context.Context) Snapshot {
	snap := Snapshot{State: l.state, User: cloneUser(l.user)}
	l.obsMu.Lock()
	l.mu.Unlock()
	defer l.obsMu.Unlock()

	metrics.Get().AuthTransitionsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("state", snap.State.String())))
	for _, fn := range l.observers {
		fn(snap)
	}
	return snap
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
