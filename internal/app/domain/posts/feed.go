package posts

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/FACorreiaa/techblog/internal/app/domain/pagination"
	"github.com/FACorreiaa/techblog/internal/app/models"
)

// Feed is the posts list screen: paginated, searchable by title, and kept in
// sync with deletes made from it. ManagePosts uses the same controller.
type Feed struct {
	svc   *Service
	pager *pagination.Pager[models.Post]

	mu    sync.Mutex
	query string
}

func NewFeed(svc *Service, logger *zap.Logger) *Feed {
	return &Feed{
		svc:   svc,
		pager: pagination.New("posts", svc.Page, logger),
	}
}

// Focus reloads from the first page.
func (f *Feed) Focus(ctx context.Context) error {
	_, err := f.pager.Focus(ctx)
	return err
}

// LoadMore fetches the next page unless exhausted or already loading.
func (f *Feed) LoadMore(ctx context.Context) error {
	_, err := f.pager.LoadMore(ctx)
	return err
}

// LoadPage loads a specific page, refreshing when page is 1.
func (f *Feed) LoadPage(ctx context.Context, page int) error {
	_, err := f.pager.LoadPage(ctx, page, page <= 1)
	return err
}

// SetQuery filters Posts by a case-insensitive title match.
func (f *Feed) SetQuery(q string) {
	f.mu.Lock()
	f.query = strings.TrimSpace(q)
	f.mu.Unlock()
}

// Posts returns the accumulated posts matching the current query.
func (f *Feed) Posts() []models.Post {
	f.mu.Lock()
	query := f.query
	f.mu.Unlock()

	items := f.pager.Items()
	if query == "" {
		return items
	}
	needle := cases.Fold().String(query)
	out := items[:0]
	for _, p := range items {
		if strings.Contains(cases.Fold().String(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Delete removes the post on the backend, then from the local list. On
// failure the list is left as is.
func (f *Feed) Delete(ctx context.Context, id string) error {
	if err := f.svc.Delete(ctx, id); err != nil {
		return err
	}
	f.pager.Remove(id)
	return nil
}

func (f *Feed) HasMore() bool { return f.pager.HasMore() }
func (f *Feed) Loading() bool { return f.pager.Loading() }
func (f *Feed) Page() int     { return f.pager.Page() }

// Close drops results of requests still in flight.
func (f *Feed) Close() { f.pager.Close() }
