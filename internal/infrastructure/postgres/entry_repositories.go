package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
)

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// DiaryRepository stores free-form diary entries.
type DiaryRepository struct {
	*OwnedTable[*entity.DiaryEntry]
}

func NewDiaryRepository(db DB) *DiaryRepository {
	return &DiaryRepository{&OwnedTable[*entity.DiaryEntry]{db: db, t: table[*entity.DiaryEntry]{
		name:    "diary_entries",
		columns: []string{"title", "content", "music_key"},
		orderBy: "created_at DESC",
		dayCol:  "created_at",
		newRow:  func() *entity.DiaryEntry { return &entity.DiaryEntry{} },
		fields: func(e *entity.DiaryEntry) []any {
			return []any{&e.Title, &e.Content, &e.MusicKey}
		},
		values: func(e *entity.DiaryEntry) []any {
			return []any{e.Title, e.Content, e.MusicKey}
		},
	}}}
}

func (r *DiaryRepository) ExistsCreatedBetween(ctx context.Context, ownerID string, from, to time.Time) (bool, error) {
	return r.exists(ctx, "owner_id = $1 AND created_at >= $2 AND created_at < $3", ownerID, from, to)
}

func NewPersonalRepository(db DB) *OwnedTable[*entity.PersonalEntry] {
	return &OwnedTable[*entity.PersonalEntry]{db: db, t: table[*entity.PersonalEntry]{
		name:    "personal_entries",
		columns: []string{"title", "content", "category", "mood", "images", "entry_date"},
		orderBy: "entry_date DESC",
		dayCol:  "entry_date",
		newRow:  func() *entity.PersonalEntry { return &entity.PersonalEntry{} },
		fields: func(e *entity.PersonalEntry) []any {
			return []any{&e.Title, &e.Content, &e.Category, &e.Mood, &e.Images, &e.Date.Time}
		},
		values: func(e *entity.PersonalEntry) []any {
			return []any{e.Title, e.Content, e.Category, e.Mood, nonNil(e.Images), e.Date.Time}
		},
	}}
}

func NewProfessionalRepository(db DB) *OwnedTable[*entity.ProfessionalEntry] {
	return &OwnedTable[*entity.ProfessionalEntry]{db: db, t: table[*entity.ProfessionalEntry]{
		name:    "professional_entries",
		columns: []string{"title", "description", "category", "mood", "images", "entry_date"},
		orderBy: "entry_date DESC",
		dayCol:  "entry_date",
		newRow:  func() *entity.ProfessionalEntry { return &entity.ProfessionalEntry{} },
		fields: func(e *entity.ProfessionalEntry) []any {
			return []any{&e.Title, &e.Description, &e.Category, &e.Mood, &e.Images, &e.Date.Time}
		},
		values: func(e *entity.ProfessionalEntry) []any {
			return []any{e.Title, e.Description, e.Category, e.Mood, nonNil(e.Images), e.Date.Time}
		},
	}}
}

func NewScheduleRepository(db DB) *OwnedTable[*entity.ScheduleItem] {
	return &OwnedTable[*entity.ScheduleItem]{db: db, t: table[*entity.ScheduleItem]{
		name:    "schedule_items",
		columns: []string{"title", "description", "item_date", "item_time", "category", "priority", "completed"},
		orderBy: "item_date ASC, item_time ASC",
		dayCol:  "item_date",
		newRow:  func() *entity.ScheduleItem { return &entity.ScheduleItem{} },
		fields: func(e *entity.ScheduleItem) []any {
			return []any{&e.Title, &e.Description, &e.Date.Time, &e.Time, &e.Category, &e.Priority, &e.Completed}
		},
		values: func(e *entity.ScheduleItem) []any {
			return []any{e.Title, e.Description, e.Date.Time, e.Time, e.Category, e.Priority, e.Completed}
		},
	}}
}

// ReminderRepository stores reminders created by the daily job.
type ReminderRepository struct {
	*OwnedTable[*entity.Reminder]
}

func NewReminderRepository(db DB) *ReminderRepository {
	return &ReminderRepository{&OwnedTable[*entity.Reminder]{db: db, t: table[*entity.Reminder]{
		name:    "reminders",
		columns: []string{"reminder_date", "message", "seen"},
		orderBy: "reminder_date DESC, created_at DESC",
		dayCol:  "reminder_date",
		newRow:  func() *entity.Reminder { return &entity.Reminder{} },
		fields: func(e *entity.Reminder) []any {
			return []any{&e.Date, &e.Message, &e.Seen}
		},
		values: func(e *entity.Reminder) []any {
			return []any{e.Date, e.Message, e.Seen}
		},
	}}}
}

func (r *ReminderRepository) ExistsForDay(ctx context.Context, ownerID string, day time.Time) (bool, error) {
	return r.exists(ctx, "owner_id = $1 AND reminder_date = $2", ownerID, day)
}

var (
	_ repository.DiaryRepository        = (*DiaryRepository)(nil)
	_ repository.PersonalRepository     = (*OwnedTable[*entity.PersonalEntry])(nil)
	_ repository.ProfessionalRepository = (*OwnedTable[*entity.ProfessionalEntry])(nil)
	_ repository.ScheduleRepository     = (*OwnedTable[*entity.ScheduleItem])(nil)
	_ repository.ReminderRepository     = (*ReminderRepository)(nil)
)
