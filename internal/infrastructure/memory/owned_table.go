// Package memory holds map-backed stores used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
)

// OwnedTable keeps copies of owned resources keyed by id. Callers never see
// the stored pointer, so mutations only land through Update.
type OwnedTable[T entity.Owned] struct {
	mu    sync.RWMutex
	rows  map[string]T
	clone func(T) T
	day   func(T) time.Time
	less  func(a, b T) bool
}

func newTable[T entity.Owned](clone func(T) T, day func(T) time.Time, less func(a, b T) bool) *OwnedTable[T] {
	return &OwnedTable[T]{rows: make(map[string]T), clone: clone, day: day, less: less}
}

func (t *OwnedTable[T]) Create(_ context.Context, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := v.Own().ID
	if _, ok := t.rows[id]; ok {
		return repository.ErrDuplicate
	}
	t.rows[id] = t.clone(v)
	return nil
}

func (t *OwnedTable[T]) FindByID(_ context.Context, id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return t.clone(v), nil
}

func (t *OwnedTable[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0)
	for _, v := range t.rows {
		if keep(v) {
			out = append(out, t.clone(v))
		}
	}
	t.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return t.less(out[i], out[j]) })
	return out
}

func (t *OwnedTable[T]) FindByOwner(_ context.Context, ownerID string) ([]T, error) {
	return t.filter(func(v T) bool { return v.Own().OwnerID == ownerID }), nil
}

func (t *OwnedTable[T]) FindByOwnerBetween(_ context.Context, ownerID string, from, to time.Time) ([]T, error) {
	return t.filter(func(v T) bool {
		d := t.day(v)
		return v.Own().OwnerID == ownerID && !d.Before(from) && d.Before(to)
	}), nil
}

func (t *OwnedTable[T]) Update(_ context.Context, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	o := v.Own()
	cur, ok := t.rows[o.ID]
	if !ok || cur.Own().OwnerID != o.OwnerID {
		return repository.ErrNotFound
	}
	o.CreatedAt = cur.Own().CreatedAt
	o.UpdatedAt = time.Now().UTC()
	t.rows[o.ID] = t.clone(v)
	return nil
}

func (t *OwnedTable[T]) Delete(_ context.Context, ownerID, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.rows[id]
	if !ok || cur.Own().OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *OwnedTable[T]) some(keep func(T) bool) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, v := range t.rows {
		if keep(v) {
			return true
		}
	}
	return false
}
