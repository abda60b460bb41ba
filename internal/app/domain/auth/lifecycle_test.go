package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/domain/token/tokentest"
	"github.com/FACorreiaa/techblog/internal/app/models"
	"github.com/FACorreiaa/techblog/internal/pkg/session"
)

// MockTransport is a mock implementation of the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Post(ctx context.Context, path string, body, out any) error {
	args := m.Called(ctx, path, body, out)
	return args.Error(0)
}

func (m *MockTransport) SetToken(token string) {
	m.Called(token)
}

func (m *MockTransport) ClearToken() {
	m.Called()
}

type failingStore struct {
	session.Store
}

func (failingStore) Save(context.Context, *models.User, string) error {
	return errors.New("disk full")
}

func (failingStore) Clear(context.Context) error {
	return errors.New("read-only filesystem")
}

func respondWithToken(tok string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(3).(*models.AuthResponse).AccessToken = tok
	}
}

func newLifecycle(store session.Store) (*Lifecycle, *MockTransport) {
	client := new(MockTransport)
	return NewLifecycle(store, client, zap.NewNop()), client
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyStore", func(t *testing.T) {
		l, client := newLifecycle(session.NewMemoryStore())
		assert.True(t, l.Snapshot().Initializing())

		client.On("ClearToken").Return().Once()
		snap := l.Restore(ctx)

		assert.Equal(t, StateUnauthenticated, snap.State)
		assert.Nil(t, snap.User)
		client.AssertExpectations(t)
	})

	t.Run("StoredPair", func(t *testing.T) {
		store := session.NewMemoryStore()
		user := &models.User{ID: "u1", Name: "Ana", Email: "ana@x.com", Role: models.RoleStudent}
		require.NoError(t, store.Save(ctx, user, "tok"))

		l, client := newLifecycle(store)
		client.On("SetToken", "tok").Return().Twice()

		first := l.Restore(ctx)
		second := l.Restore(ctx)

		assert.Equal(t, StateAuthenticated, first.State)
		assert.Equal(t, user, first.User)
		assert.Equal(t, first, second)
		assert.Equal(t, "tok", l.Token())
		client.AssertExpectations(t)
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	creds := models.LoginRequest{Email: "prof@x.com", Password: "secret"}

	t.Run("Success", func(t *testing.T) {
		store := session.NewMemoryStore()
		l, client := newLifecycle(store)
		tok := tokentest.Instructor("u1", "prof@x.com")

		client.On("Post", mock.Anything, LoginPath, creds, mock.AnythingOfType("*models.AuthResponse")).
			Run(respondWithToken(tok)).Return(nil).Once()
		client.On("SetToken", tok).Return().Once()

		user, err := l.SignIn(ctx, "prof@x.com", "secret")
		require.NoError(t, err)

		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "prof@x.com", user.Email)
		assert.Equal(t, models.RoleInstructor, user.Role)
		assert.Equal(t, StateAuthenticated, l.Snapshot().State)

		storedUser, storedTok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, user, storedUser)
		assert.Equal(t, tok, storedTok)
		client.AssertExpectations(t)
	})

	t.Run("Rejected", func(t *testing.T) {
		l, client := newLifecycle(session.NewMemoryStore())
		client.On("ClearToken").Return().Once()
		l.Restore(ctx)

		client.On("Post", mock.Anything, LoginPath, creds, mock.Anything).
			Return(&models.HTTPError{Method: "POST", Path: LoginPath, Status: 401}).Once()

		_, err := l.SignIn(ctx, "prof@x.com", "secret")

		var authErr *models.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, 401, authErr.Status)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		assert.Equal(t, StateUnauthenticated, l.Snapshot().State)
		client.AssertNotCalled(t, "SetToken", mock.Anything)
	})

	t.Run("NetworkErrorPropagates", func(t *testing.T) {
		l, client := newLifecycle(session.NewMemoryStore())
		netErr := &models.NetworkError{Method: "POST", Path: LoginPath, Err: context.DeadlineExceeded}
		client.On("Post", mock.Anything, LoginPath, creds, mock.Anything).Return(netErr).Once()

		_, err := l.SignIn(ctx, "prof@x.com", "secret")
		assert.ErrorIs(t, err, models.ErrNetwork)
		assert.True(t, l.Snapshot().Initializing())
	})

	t.Run("MissingToken", func(t *testing.T) {
		l, client := newLifecycle(session.NewMemoryStore())
		client.On("Post", mock.Anything, LoginPath, creds, mock.Anything).
			Run(respondWithToken("")).Return(nil).Once()

		_, err := l.SignIn(ctx, "prof@x.com", "secret")
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("MalformedToken", func(t *testing.T) {
		l, client := newLifecycle(session.NewMemoryStore())
		client.On("Post", mock.Anything, LoginPath, creds, mock.Anything).
			Run(respondWithToken("garbage")).Return(nil).Once()

		_, err := l.SignIn(ctx, "prof@x.com", "secret")
		assert.ErrorIs(t, err, models.ErrMalformedToken)
		client.AssertNotCalled(t, "SetToken", mock.Anything)
	})

	t.Run("ValidationBlocksRequest", func(t *testing.T) {
		l, client := newLifecycle(session.NewMemoryStore())

		_, err := l.SignIn(ctx, "  ", "secret")
		assert.ErrorIs(t, err, models.ErrValidation)
		_, err = l.SignIn(ctx, "prof@x.com", "")
		assert.ErrorIs(t, err, models.ErrValidation)
		client.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PersistFailureLeavesTokenDetached", func(t *testing.T) {
		l, client := newLifecycle(failingStore{})
		tok := tokentest.Student("u2", "aluno@x.com")
		client.On("Post", mock.Anything, LoginPath, creds, mock.Anything).
			Run(respondWithToken(tok)).Return(nil).Once()

		_, err := l.SignIn(ctx, "prof@x.com", "secret")
		assert.Error(t, err)
		assert.Empty(t, l.Token())
		client.AssertNotCalled(t, "SetToken", mock.Anything)
	})
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("ThenRestoreIsUnauthenticated", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Save(ctx, &models.User{ID: "u1", Role: models.RoleInstructor}, "tok"))
		l, client := newLifecycle(store)
		client.On("SetToken", "tok").Return().Once()
		client.On("ClearToken").Return()

		require.Equal(t, StateAuthenticated, l.Restore(ctx).State)
		l.SignOut(ctx)
		assert.Equal(t, StateUnauthenticated, l.Snapshot().State)
		assert.Empty(t, l.Token())

		assert.Equal(t, StateUnauthenticated, l.Restore(ctx).State)
		client.AssertExpectations(t)
	})

	t.Run("StoreErrorIsSwallowed", func(t *testing.T) {
		l, client := newLifecycle(failingStore{})
		client.On("ClearToken").Return().Once()

		l.SignOut(ctx)
		assert.Equal(t, StateUnauthenticated, l.Snapshot().State)
		client.AssertExpectations(t)
	})
}

func TestSubscribeSeesTransitionsInOrder(t *testing.T) {
	ctx := context.Background()
	l, client := newLifecycle(session.NewMemoryStore())
	tok := tokentest.Instructor("u1", "prof@x.com")
	client.On("ClearToken").Return()
	client.On("SetToken", tok).Return()
	client.On("Post", mock.Anything, LoginPath, mock.Anything, mock.Anything).
		Run(respondWithToken(tok)).Return(nil)

	var seen []State
	unsubscribe := l.Subscribe(func(s Snapshot) { seen = append(seen, s.State) })

	l.Restore(ctx)
	_, err := l.SignIn(ctx, "prof@x.com", "secret")
	require.NoError(t, err)
	l.SignOut(ctx)

	unsubscribe()
	l.Restore(ctx)

	assert.Equal(t, []State{StateUnauthenticated, StateAuthenticated, StateUnauthenticated}, seen)
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(ctx, &models.User{ID: "u1", Role: models.RoleStudent}, "tok"))
	l, client := newLifecycle(store)
	client.On("SetToken", "tok").Return()

	snap := l.Restore(ctx)
	snap.User.Role = models.RoleInstructor

	assert.Equal(t, models.RoleStudent, l.Snapshot().User.Role)
}
