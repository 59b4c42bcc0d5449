package service

import (
	"context"
	"errors"

	"parceldesk/api/internal/model"
	"parceldesk/api/internal/store"
)

// stubRemote is an in-memory upstream used across the service tests.
type stubRemote[T model.Record] struct {
	items  []T
	nextID int64
	down   bool
}

func (r *stubRemote[T]) FetchAll(ctx context.Context) ([]T, error) {
	if r.down {
		return nil, errors.New("connection refused")
	}
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *stubRemote[T]) Create(ctx context.Context, rec T) error {
	if r.down {
		return errors.New("connection refused")
	}
	r.nextID++
	rec.SetRecordID(r.nextID)
	r.items = append(r.items, rec)
	return nil
}

func (r *stubRemote[T]) Update(ctx context.Context, rec T) error {
	if r.down {
		return errors.New("connection refused")
	}
	return nil
}

func (r *stubRemote[T]) Delete(ctx context.Context, id int64) error {
	if r.down {
		return errors.New("connection refused")
	}
	return nil
}

// stubSnapshot is an in-memory fallback cache.
type stubSnapshot[T model.Record] struct {
	stored []T
}

func (s *stubSnapshot[T]) Load(ctx context.Context) []T { return s.stored }

func (s *stubSnapshot[T]) Save(ctx context.Context, items []T) error {
	s.stored = make([]T, len(items))
	copy(s.stored, items)
	return nil
}

func (s *stubSnapshot[T]) Clear(ctx context.Context) error {
	s.stored = nil
	return nil
}

func newStubCoordinator[T model.Record](kind string, remote *stubRemote[T]) *store.Coordinator[T] {
	return store.NewCoordinator[T](kind, remote, &stubSnapshot[T]{})
}
