package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
)

// OwnedRepository stores resources that belong to a single user.
// Every collection query is constrained by ownerID inside the store;
// Update and Delete match on both id and ownerID.
type OwnedRepository[T entity.Owned] interface {
	Create(ctx context.Context, v T) error
	FindByID(ctx context.Context, id string) (T, error)
	FindByOwner(ctx context.Context, ownerID string) ([]T, error)
	FindByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) ([]T, error)
	Update(ctx context.Context, v T) error
	Delete(ctx context.Context, ownerID, id string) error
}

type DiaryRepository interface {
	OwnedRepository[*entity.DiaryEntry]
	// ExistsCreatedBetween reports whether ownerID created a diary entry in [from, to).
	ExistsCreatedBetween(ctx context.Context, ownerID string, from, to time.Time) (bool, error)
}

type PersonalRepository = OwnedRepository[*entity.PersonalEntry]

type ProfessionalRepository = OwnedRepository[*entity.ProfessionalEntry]

type ScheduleRepository = OwnedRepository[*entity.ScheduleItem]

type ReminderRepository interface {
	OwnedRepository[*entity.Reminder]
	ExistsForDay(ctx context.Context, ownerID string, day time.Time) (bool, error)
}
