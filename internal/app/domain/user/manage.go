package user

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

// Filter narrows the managed users list by role.
type Filter string

const (
	FilterAll        Filter = "TODOS"
	FilterInstructor Filter = Filter(models.RoleInstructor)
	FilterStudent    Filter = Filter(models.RoleStudent)
)

// ParseFilter maps user input to a filter, defaulting to FilterAll.
func ParseFilter(s string) Filter {
	if r := models.Role(s); r.Valid() {
		return Filter(r)
	}
	return FilterAll
}

// Manager is the manage-users screen. The list is reloaded on every focus
// and after every delete; a failed load keeps the previous list.
type Manager struct {
	svc    UserService
	logger *zap.Logger

	mu      sync.Mutex
	users   []models.User
	filter  Filter
	loading bool
}

func NewManager(svc UserService, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{svc: svc, logger: logger, filter: FilterAll}
}

// Load fetches the full list. A call while another load runs is a no-op.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return nil
	}
	m.loading = true
	m.mu.Unlock()

	resp, err := m.svc.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		return err
	}
	m.users = resp.Data
	return nil
}

// Delete removes the account on the backend and reloads the list.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.svc.Delete(ctx, id); err != nil {
		return err
	}
	return m.Load(ctx)
}

// SetFilter changes the role filter.
func (m *Manager) SetFilter(f Filter) {
	m.mu.Lock()
	m.filter = f
	m.mu.Unlock()
}

// Users returns the loaded users matching the filter.
func (m *Manager) Users() []models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		if m.filter == FilterAll || Filter(u.Role) == m.filter {
			out = append(out, u)
		}
	}
	return out
}

// Find returns a loaded user by id, for opening the edit form.
func (m *Manager) Find(id string) (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (m *Manager) Filter() Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Save validates form and creates the account, or updates it when id is set.
func Save(ctx context.Context, svc UserService, id string, form Form) (*models.User, error) {
	if id == "" {
		req, err := form.CreateRequest()
		if err != nil {
			return nil, err
		}
		return svc.Create(ctx, req)
	}
	req, err := form.UpdateRequest()
	if err != nil {
		return nil, err
	}
	return svc.Update(ctx, id, req)
}
