package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct{ id, label string }

func (i item) GetID() string { return i.id }

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

func pageOf(prefix string, n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{id: fmt.Sprintf("%s%d", prefix, i+1)}
	}
	return out
}

// fakeBackend serves fixed pages and counts calls.
type fakeBackend struct {
	mu    sync.Mutex
	pages map[int][]item
	calls int
	err   error
}

func (b *fakeBackend) fetch(_ context.Context, page int) ([]item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return b.pages[page], nil
}

func TestMergeDeduplicatesFirstWins(t *testing.T) {
	a := []item{{id: "1", label: "first"}, {id: "2"}}
	b := []item{{id: "3"}, {id: "1", label: "second"}, {id: "4"}, {id: "3"}}

	merged := Merge(a, b)

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(merged))
	assert.Equal(t, "first", merged[0].label)
}

func TestMergeIsIdempotent(t *testing.T) {
	page := pageOf("p", 3)
	once := Merge(nil, page)
	assert.Equal(t, once, Merge(once, page))
}

func TestLoadPageExhaustion(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{pages: map[int][]item{1: pageOf("p", 5)}}
	p := New("posts", b.fetch, nil)

	ran, err := p.LoadPage(ctx, 1, false)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Len(t, p.Items(), 5)
	assert.Equal(t, 1, p.Page())
	assert.True(t, p.HasMore())

	ran, err = p.LoadPage(ctx, 2, false)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, p.HasMore())
	assert.Equal(t, 1, p.Page())

	ran, err = p.LoadPage(ctx, 2, false)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 2, b.calls)
	assert.Len(t, p.Items(), 5)
}

func TestLoadPageMergesOverlappingPages(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{pages: map[int][]item{
		1: {{id: "a"}, {id: "b"}},
		2: {{id: "b"}, {id: "c"}},
	}}
	p := New("posts", b.fetch, nil)

	_, err := p.LoadMore(ctx)
	require.NoError(t, err)
	_, err = p.LoadMore(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, ids(p.Items()))
	assert.Equal(t, 2, p.Page())
}

func TestLoadPageInFlightIsNoop(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	p := New("posts", func(ctx context.Context, page int) ([]item, error) {
		calls.Add(1)
		close(started)
		<-release
		return pageOf("p", 2), nil
	}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.LoadPage(ctx, 1, false)
	}()
	<-started
	assert.True(t, p.Loading())

	ran, err := p.LoadPage(ctx, 1, false)
	assert.NoError(t, err)
	assert.False(t, ran)
	ran, _ = p.Refresh(ctx)
	assert.False(t, ran)

	close(release)
	<-done

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, p.Loading())
	assert.Len(t, p.Items(), 2)
}

func TestLoadPageFailureKeepsData(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{pages: map[int][]item{1: pageOf("p", 3)}}
	p := New("posts", b.fetch, nil)
	_, err := p.LoadMore(ctx)
	require.NoError(t, err)

	boom := errors.New("timeout")
	b.err = boom
	ran, err := p.LoadMore(ctx)

	assert.True(t, ran)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, p.Err(), boom)
	assert.False(t, p.Loading())
	assert.Len(t, p.Items(), 3)
	assert.Equal(t, 1, p.Page())
	assert.True(t, p.HasMore())

	b.err = nil
	_, err = p.Refresh(ctx)
	require.NoError(t, err)
	assert.NoError(t, p.Err())
}

func TestRefreshReplacesState(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{pages: map[int][]item{1: pageOf("p", 2), 2: pageOf("q", 2)}}
	p := New("posts", b.fetch, nil)
	_, _ = p.LoadMore(ctx)
	_, _ = p.LoadMore(ctx)
	require.Len(t, p.Items(), 4)

	b.pages[1] = []item{{id: "new"}}
	_, err := p.Refresh(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"new"}, ids(p.Items()))
	assert.Equal(t, 1, p.Page())
}

func TestFocusResetsExhaustion(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{pages: map[int][]item{1: pageOf("p", 1)}}
	p := New("posts", b.fetch, nil)
	_, _ = p.LoadMore(ctx)
	_, _ = p.LoadMore(ctx)
	require.False(t, p.HasMore())

	b.pages[2] = pageOf("q", 1)
	ran, err := p.Focus(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, p.HasMore())

	ran, _ = p.LoadMore(ctx)
	assert.True(t, ran)
	assert.Equal(t, []string{"p1", "q1"}, ids(p.Items()))
}

func TestRefreshOfEmptyListExhausts(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{pages: map[int][]item{1: pageOf("p", 2)}}
	p := New("posts", b.fetch, nil)
	_, _ = p.LoadMore(ctx)

	delete(b.pages, 1)
	_, err := p.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, p.Items())
	assert.False(t, p.HasMore())
	assert.Equal(t, 0, p.Page())
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	b := &fakeBackend{pages: map[int][]item{1: {{id: "p1"}, {id: "p2"}, {id: "p3"}}}}
	p := New("posts", b.fetch, nil)
	_, _ = p.LoadMore(ctx)

	assert.True(t, p.Remove("p1"))
	assert.False(t, p.Remove("p1"))
	assert.Equal(t, []string{"p2", "p3"}, ids(p.Items()))
}

func TestCloseDropsLateResults(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})
	p := New("posts", func(ctx context.Context, page int) ([]item, error) {
		close(started)
		<-release
		return pageOf("p", 2), nil
	}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.LoadMore(ctx)
	}()
	<-started
	p.Close()
	close(release)
	<-done

	assert.Empty(t, p.Items())
	ran, _ := p.LoadMore(ctx)
	assert.False(t, ran)
}
