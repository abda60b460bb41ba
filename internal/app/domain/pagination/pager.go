// Package pagination implements the page-by-page list loading shared by the
// posts and users screens.
package pagination

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/techblog/internal/app/observability/metrics"
)

// Identifiable is anything with a stable backend id.
type Identifiable interface {
	GetID() string
}

// FetchFunc loads one page, 1-based.
type FetchFunc[T Identifiable] func(ctx context.Context, page int) ([]T, error)

// Pager accumulates pages for one screen. At most one fetch is in flight;
// calls made meanwhile are no-ops.
type Pager[T Identifiable] struct {
	name   string
	fetch  FetchFunc[T]
	logger *zap.Logger

	mu      sync.Mutex
	items   []T
	page    int
	hasMore bool
	loading bool
	closed  bool
	lastErr error
}

// New returns an empty pager. name labels logs and metrics.
func New[T Identifiable](name string, fetch FetchFunc[T], logger *zap.Logger) *Pager[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pager[T]{
		name:    name,
		fetch:   fetch,
		logger:  logger,
		hasMore: true,
	}
}

// LoadPage fetches page and merges it. It reports whether a fetch ran.
//
// Skipped when a fetch is in flight, when the pager is closed, or when the
// list is exhausted and refresh is false. A refresh replaces the accumulated
// items with the fetched page. An empty page marks the list exhausted.
// On error the accumulated items are left unchanged.
func (p *Pager[T]) LoadPage(ctx context.Context, page int, refresh bool) (bool, error) {
	p.mu.Lock()
	if p.loading || p.closed || (!p.hasMore && !refresh) {
		p.mu.Unlock()
		return false, nil
	}
	p.loading = true
	p.mu.Unlock()

	l := p.logger.With(zap.String("list", p.name), zap.Int("page", page), zap.Bool("refresh", refresh))
	metrics.Get().PageLoadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("list", p.name)))

	items, err := p.fetch(ctx, page)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if p.closed {
		l.Debug("Discarding page for closed list")
		return true, err
	}
	if err != nil {
		p.lastErr = err
		l.Warn("Page load failed", zap.Error(err))
		return true, err
	}
	p.lastErr = nil

	if refresh {
		p.items = nil
		p.page = 0
		p.hasMore = true
	}
	if len(items) == 0 {
		p.hasMore = false
		l.Debug("List exhausted")
		return true, nil
	}

	p.items = Merge(p.items, items)
	p.page = page
	l.Debug("Page merged", zap.Int("received", len(items)), zap.Int("total", len(p.items)))
	return true, nil
}

// LoadMore fetches the page after the last one merged.
func (p *Pager[T]) LoadMore(ctx context.Context) (bool, error) {
	return p.LoadPage(ctx, p.Page()+1, false)
}

// Refresh reloads from the first page.
func (p *Pager[T]) Refresh(ctx context.Context) (bool, error) {
	return p.LoadPage(ctx, 1, true)
}

// Focus is called when the screen regains focus: exhaustion is forgotten and
// the list reloads from the first page.
func (p *Pager[T]) Focus(ctx context.Context) (bool, error) {
	p.mu.Lock()
	p.hasMore = true
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// Remove drops id from the accumulated items, keeping the rest in order.
func (p *Pager[T]) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, it := range p.items {
		if it.GetID() == id {
			p.items = append(p.items[:i:i], p.items[i+1:]...)
			return true
		}
	}
	return false
}

// Close marks the screen as gone; results that arrive later are dropped.
func (p *Pager[T]) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Items returns a copy of the accumulated items.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Page is the last page merged, 0 before the first load.
func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *Pager[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err is the error of the last fetch, nil after a success.
func (p *Pager[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Merge appends incoming to existing, skipping ids already present. The
// first occurrence of an id wins and order is preserved.
func Merge[T Identifiable](existing, incoming []T) []T {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]T, 0, len(existing)+len(incoming))
	for _, list := range [][]T{existing, incoming} {
		for _, it := range list {
			id := it.GetID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}
