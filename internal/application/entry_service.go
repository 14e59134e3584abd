package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
)

// ImageStore uploads an image and returns the URL it is served from.
type ImageStore interface {
	Upload(ctx context.Context, kind, ownerID, contentType string, r io.Reader) (string, error)
}

// EntryService implements owner-scoped CRUD for one resource kind.
// Single-resource operations go through the Authorizer first; listing is
// delegated to owner-constrained store queries.
type EntryService[T entity.Owned] struct {
	Kind   string
	Repo   repository.OwnedRepository[T]
	Auth   Authorizer[T]
	Images ImageStore
	Logger *logrus.Logger
	Now    func() time.Time

	// Optional hooks run after a successful write.
	OnSaved   func(ctx context.Context, v T)
	OnDeleted func(ctx context.Context, id string)
}

func NewEntryService[T entity.Owned](kind string, repo repository.OwnedRepository[T], logger *logrus.Logger) *EntryService[T] {
	return &EntryService[T]{
		Kind:   kind,
		Repo:   repo,
		Auth:   NewAuthorizer[T](repo),
		Logger: logger,
		Now:    time.Now,
	}
}

func (s *EntryService[T]) unavailable(err error, op string) error {
	helpers.LogError(s.Logger, s.Kind+" "+op+" failed", err, nil)
	return apperror.Unavailable(err)
}

func check(v any) error {
	if c, ok := v.(entity.Checker); ok {
		if details := c.Check(); len(details) > 0 {
			return apperror.InvalidInput("validation failed", details)
		}
	}
	return nil
}

func (s *EntryService[T]) saved(ctx context.Context, v T) {
	if s.OnSaved != nil {
		s.OnSaved(ctx, v)
	}
}

// Create assigns id, owner and timestamps, fills defaults and stores v.
// Any id or owner sent by the client is overwritten.
func (s *EntryService[T]) Create(ctx context.Context, ownerID string, v T) (T, error) {
	var zero T
	if err := check(v); err != nil {
		return zero, err
	}
	now := s.Now().UTC()
	o := v.Own()
	o.ID, o.OwnerID, o.CreatedAt, o.UpdatedAt = uuid.NewString(), ownerID, now, now
	if d, ok := any(v).(entity.Defaulter); ok {
		d.ApplyDefaults(now)
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return zero, s.unavailable(err, "create")
	}
	s.saved(ctx, v)
	return v, nil
}

func (s *EntryService[T]) List(ctx context.Context, ownerID string) ([]T, error) {
	items, err := s.Repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.unavailable(err, "list")
	}
	return items, nil
}

// ListByDay lists ownerID's items dated on day (YYYY-MM-DD, UTC).
func (s *EntryService[T]) ListByDay(ctx context.Context, ownerID, day string) ([]T, error) {
	from, to, err := entity.DayBounds(day)
	if err != nil {
		return nil, apperror.InvalidInput("invalid date", map[string]string{"date": "must be YYYY-MM-DD"})
	}
	items, err := s.Repo.FindByOwnerBetween(ctx, ownerID, from, to)
	if err != nil {
		return nil, s.unavailable(err, "list by day")
	}
	return items, nil
}

func (s *EntryService[T]) Get(ctx context.Context, ownerID, id string) (T, error) {
	return s.Auth.Require(ctx, ownerID, id)
}

// Update authorizes, lets apply modify the stored value, then persists it.
// id, owner and creation time survive whatever apply does.
func (s *EntryService[T]) Update(ctx context.Context, ownerID, id string, apply func(T) error) (T, error) {
	var zero T
	v, err := s.Auth.Require(ctx, ownerID, id)
	if err != nil {
		return zero, err
	}
	keep := *v.Own()
	if err := apply(v); err != nil {
		return zero, err
	}
	o := v.Own()
	o.ID, o.OwnerID, o.CreatedAt = keep.ID, keep.OwnerID, keep.CreatedAt
	if err := check(v); err != nil {
		return zero, err
	}
	if d, ok := any(v).(entity.Defaulter); ok {
		d.ApplyDefaults(s.Now().UTC())
	}
	if err := s.Repo.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, apperror.NotFound("not found")
		}
		return zero, s.unavailable(err, "update")
	}
	s.saved(ctx, v)
	return v, nil
}

func (s *EntryService[T]) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Auth.Require(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("not found")
		}
		return s.unavailable(err, "delete")
	}
	if s.OnDeleted != nil {
		s.OnDeleted(ctx, id)
	}
	return nil
}

// AttachImage uploads an image and appends its URL to the entry.
func (s *EntryService[T]) AttachImage(ctx context.Context, ownerID, id, contentType string, r io.Reader) (T, error) {
	var zero T
	if s.Images == nil {
		return zero, apperror.Unavailable(errors.New("image storage not configured"))
	}
	if _, ok := any(zero).(entity.ImageHolder); !ok {
		return zero, apperror.InvalidInput(s.Kind+" entries do not hold images", nil)
	}
	if _, err := s.Auth.Require(ctx, ownerID, id); err != nil {
		return zero, err
	}
	url, err := s.Images.Upload(ctx, s.Kind, ownerID, contentType, r)
	if err != nil {
		var ae *apperror.Error
		if errors.As(err, &ae) {
			return zero, ae
		}
		return zero, s.unavailable(err, "image upload")
	}
	return s.Update(ctx, ownerID, id, func(v T) error {
		any(v).(entity.ImageHolder).AddImage(url)
		return nil
	})
}

// ToggleComplete flips the completed flag of a schedule item.
func ToggleComplete(ctx context.Context, s *EntryService[*entity.ScheduleItem], ownerID, id string) (*entity.ScheduleItem, error) {
	return s.Update(ctx, ownerID, id, func(item *entity.ScheduleItem) error {
		item.Completed = !item.Completed
		return nil
	})
}
