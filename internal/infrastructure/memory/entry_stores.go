package memory

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
)

func copyImages(s []string) []string {
	return append([]string{}, s...)
}

type DiaryStore struct {
	*OwnedTable[*entity.DiaryEntry]
}

func NewDiaryStore() *DiaryStore {
	return &DiaryStore{newTable(
		func(e *entity.DiaryEntry) *entity.DiaryEntry { c := *e; return &c },
		func(e *entity.DiaryEntry) time.Time { return e.CreatedAt },
		func(a, b *entity.DiaryEntry) bool { return a.CreatedAt.After(b.CreatedAt) },
	)}
}

func (s *DiaryStore) ExistsCreatedBetween(_ context.Context, ownerID string, from, to time.Time) (bool, error) {
	return s.some(func(e *entity.DiaryEntry) bool {
		return e.OwnerID == ownerID && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to)
	}), nil
}

func NewPersonalStore() *OwnedTable[*entity.PersonalEntry] {
	return newTable(
		func(e *entity.PersonalEntry) *entity.PersonalEntry {
			c := *e
			c.Images = copyImages(e.Images)
			return &c
		},
		func(e *entity.PersonalEntry) time.Time { return e.Date.Time },
		func(a, b *entity.PersonalEntry) bool { return a.Date.After(b.Date.Time) },
	)
}

func NewProfessionalStore() *OwnedTable[*entity.ProfessionalEntry] {
	return newTable(
		func(e *entity.ProfessionalEntry) *entity.ProfessionalEntry {
			c := *e
			c.Images = copyImages(e.Images)
			return &c
		},
		func(e *entity.ProfessionalEntry) time.Time { return e.Date.Time },
		func(a, b *entity.ProfessionalEntry) bool { return a.Date.After(b.Date.Time) },
	)
}

func NewScheduleStore() *OwnedTable[*entity.ScheduleItem] {
	return newTable(
		func(e *entity.ScheduleItem) *entity.ScheduleItem { c := *e; return &c },
		func(e *entity.ScheduleItem) time.Time { return e.Date.Time },
		func(a, b *entity.ScheduleItem) bool {
			if !a.Date.Equal(b.Date.Time) {
				return a.Date.Before(b.Date.Time)
			}
			return a.Time < b.Time
		},
	)
}

type ReminderStore struct {
	*OwnedTable[*entity.Reminder]
}

func NewReminderStore() *ReminderStore {
	return &ReminderStore{newTable(
		func(e *entity.Reminder) *entity.Reminder { c := *e; return &c },
		func(e *entity.Reminder) time.Time { return e.Date },
		func(a, b *entity.Reminder) bool { return a.Date.After(b.Date) },
	)}
}

func (s *ReminderStore) ExistsForDay(_ context.Context, ownerID string, day time.Time) (bool, error) {
	return s.some(func(r *entity.Reminder) bool { return r.OwnerID == ownerID && r.Date.Equal(day) }), nil
}

var (
	_ repository.DiaryRepository        = (*DiaryStore)(nil)
	_ repository.PersonalRepository     = (*OwnedTable[*entity.PersonalEntry])(nil)
	_ repository.ProfessionalRepository = (*OwnedTable[*entity.ProfessionalEntry])(nil)
	_ repository.ScheduleRepository     = (*OwnedTable[*entity.ScheduleItem])(nil)
	_ repository.ReminderRepository     = (*ReminderStore)(nil)
)
