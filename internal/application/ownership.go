package application

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
)

// Decision is the outcome of an ownership check on a single resource.
type Decision int

const (
	Allowed Decision = iota
	Forbidden
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Forbidden:
		return "forbidden"
	default:
		return "not_found"
	}
}

// Finder is the lookup an Authorizer needs from a resource store.
type Finder[T entity.Owned] interface {
	FindByID(ctx context.Context, id string) (T, error)
}

// Authorizer decides whether a subject may act on a resource by id.
// It only reads; the caller performs the operation after Allowed.
type Authorizer[T entity.Owned] struct {
	Store Finder[T]
}

func NewAuthorizer[T entity.Owned](store Finder[T]) Authorizer[T] {
	return Authorizer[T]{Store: store}
}

// Authorize looks the resource up, then compares its owner with subjectID.
// A store failure is returned as an Unavailable error and no decision.
func (a Authorizer[T]) Authorize(ctx context.Context, subjectID, resourceID string) (T, Decision, error) {
	var zero T
	v, err := a.Store.FindByID(ctx, resourceID)
	if errors.Is(err, repository.ErrNotFound) {
		return zero, NotFound, nil
	}
	if err != nil {
		return zero, NotFound, apperror.Unavailable(err)
	}
	if v.Own().OwnerID != subjectID {
		return zero, Forbidden, nil
	}
	return v, Allowed, nil
}

// Require is Authorize folded into a single error: Forbidden and NotFound
// become apperror values of the matching kind.
func (a Authorizer[T]) Require(ctx context.Context, subjectID, resourceID string) (T, error) {
	v, d, err := a.Authorize(ctx, subjectID, resourceID)
	if err != nil {
		return v, err
	}
	switch d {
	case Forbidden:
		return v, apperror.New(apperror.KindForbidden, "not found")
	case NotFound:
		return v, apperror.NotFound("not found")
	}
	return v, nil
}
