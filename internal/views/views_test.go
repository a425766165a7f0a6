package views

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrconsole/internal/api"
	"hrconsole/internal/employee"
	"hrconsole/internal/filter"
	dErrors "hrconsole/pkg/domain-errors"
	"hrconsole/pkg/testutil"
)

func TestLatest(t *testing.T) {
	t.Run("newest ticket wins", func(t *testing.T) {
		var l Latest[string]
		first := l.Begin()
		second := l.Begin()

		assert.True(t, l.Commit(second, "new"))
		assert.False(t, l.Commit(first, "old"))

		v, ok := l.Get()
		assert.True(t, ok)
		assert.Equal(t, "new", v)
	})

	t.Run("stale response arriving first is discarded", func(t *testing.T) {
		var l Latest[int]
		first := l.Begin()
		second := l.Begin()

		assert.False(t, l.Commit(first, 1))
		_, ok := l.Get()
		assert.False(t, ok)
		assert.True(t, l.Commit(second, 2))
	})

	t.Run("reset invalidates in-flight fetches", func(t *testing.T) {
		var l Latest[int]
		ticket := l.Begin()
		l.Reset()

		assert.False(t, l.Commit(ticket, 5))
		_, ok := l.Get()
		assert.False(t, ok)
	})

	t.Run("ticket commits once", func(t *testing.T) {
		var l Latest[int]
		ticket := l.Begin()
		assert.True(t, l.Commit(ticket, 1))
		assert.False(t, l.Commit(ticket, 2))
	})
}

// gatedLister returns each call's result only when released.
type gatedLister struct {
	mu      sync.Mutex
	calls   []chan []employee.Employee
	started chan struct{}
	params  []api.ListParams
	err     error
}

func newGatedLister() *gatedLister {
	return &gatedLister{started: make(chan struct{}, 8)}
}

func (g *gatedLister) List(_ context.Context, params api.ListParams) ([]employee.Employee, error) {
	if g.err != nil {
		return nil, g.err
	}
	ch := make(chan []employee.Employee, 1)
	g.mu.Lock()
	g.calls = append(g.calls, ch)
	g.params = append(g.params, params)
	g.mu.Unlock()
	g.started <- struct{}{}
	return <-ch, nil
}

func (g *gatedLister) release(i int, list []employee.Employee) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[i] <- list
}

func staff(ids ...int64) []employee.Employee {
	out := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		dept := "IT"
		if id%2 == 0 {
			dept = "Sales"
		}
		out = append(out, employee.Employee{ID: id, Department: &dept})
	}
	return out
}

func TestEmployeeView_StaleRefreshDiscarded(t *testing.T) {
	lister := newGatedLister()
	view := NewEmployeeView(lister, 500)

	type result struct {
		applied bool
		err     error
	}
	older := make(chan result, 1)
	newer := make(chan result, 1)

	go func() {
		applied, err := view.Refresh(context.Background())
		older <- result{applied, err}
	}()
	<-lister.started
	go func() {
		applied, err := view.Refresh(context.Background())
		newer <- result{applied, err}
	}()
	<-lister.started

	lister.release(1, staff(1, 2, 3))
	r := <-newer
	require.NoError(t, r.err)
	assert.True(t, r.applied)

	lister.release(0, staff(9))
	r = <-older
	require.NoError(t, r.err)
	assert.False(t, r.applied)

	page := view.Visible(filter.Default())
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 500, lister.params[0].Limit)
}

func TestEmployeeView_VisibleAndRemove(t *testing.T) {
	lister := newGatedLister()
	view := NewEmployeeView(lister, 0)
	assert.False(t, view.Loaded())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = view.Refresh(context.Background())
	}()
	<-lister.started
	lister.release(0, staff(1, 2, 3, 4))
	<-done
	require.True(t, view.Loaded())

	page := view.Visible(filter.Criteria{Department: "Sales"})
	assert.Len(t, page.Employees, 2)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, []string{"IT", "Sales"}, page.Departments)
	assert.Equal(t, "Showing 2 of 4 employees", page.Summary())

	view.Remove(2)
	page = view.Visible(filter.Default())
	assert.Equal(t, 3, page.Total)
	for _, e := range page.Employees {
		assert.NotEqual(t, int64(2), e.ID)
	}

	view.Invalidate()
	assert.False(t, view.Loaded())
	assert.Zero(t, view.Visible(filter.Default()).Total)
}

func TestEmployeeView_RefreshError(t *testing.T) {
	lister := newGatedLister()
	lister.err = &api.Error{Status: 500, Message: "db down"}
	view := NewEmployeeView(lister, 10)

	applied, err := view.Refresh(context.Background())

	assert.False(t, applied)
	var apiErr *api.Error
	assert.True(t, errors.As(err, &apiErr))
	assert.False(t, view.Loaded())
}

type staticLister struct {
	list []employee.Employee
}

func (s staticLister) List(context.Context, api.ListParams) ([]employee.Employee, error) {
	return s.list, nil
}

// backendCode classifies client errors by their HTTP status.
func backendCode(err error) dErrors.Code {
	switch {
	case api.IsUnauthorized(err):
		return dErrors.CodeUnauthorized
	case api.IsNotFound(err):
		return dErrors.CodeNotFound
	default:
		return dErrors.CodeInternal
	}
}

func TestEmployeeView_ConcurrentRefreshAndFilter(t *testing.T) {
	view := NewEmployeeView(staticLister{list: staff(1, 2, 3, 4)}, 0)

	result := testutil.RunConcurrentCtx(context.Background(), 16, backendCode, func(ctx context.Context, idx int) error {
		if idx%2 == 0 {
			_, err := view.Refresh(ctx)
			return err
		}
		view.Visible(filter.Criteria{Department: "Sales"})
		return nil
	})

	assert.Equal(t, int32(16), result.Successes)
	require.True(t, view.Loaded())
	assert.Equal(t, 4, view.Visible(filter.Default()).Total)
}
