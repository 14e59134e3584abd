package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
	"github.com/oksasatya/go-ddd-diary/pkg/mailer"
)

const ReminderMessage = "You didn't write your diary today."

// JobPublisher puts background jobs on a queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ReminderMetrics receives reminder job outcomes.
type ReminderMetrics interface {
	RemindersCreated(n int)
	ReminderRun(err error)
}

type ReminderService struct {
	Users       repository.UserRepository
	Diary       repository.DiaryRepository
	Reminders   repository.ReminderRepository
	Jobs        JobPublisher
	MailEnabled bool
	Metrics     ReminderMetrics
	Logger      *logrus.Logger
	Now         func() time.Time

	entries *EntryService[*entity.Reminder]
}

func NewReminderService(users repository.UserRepository, diary repository.DiaryRepository, reminders repository.ReminderRepository, logger *logrus.Logger) *ReminderService {
	return &ReminderService{
		Users:     users,
		Diary:     diary,
		Reminders: reminders,
		Logger:    logger,
		Now:       time.Now,
		entries:   NewEntryService[*entity.Reminder]("reminder", reminders, logger),
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RunDaily creates today's reminder for every user who has not written a
// diary entry today and has no reminder yet. Failures for one user do not
// stop the run; they are joined into the returned error.
func (s *ReminderService) RunDaily(ctx context.Context) (created int, err error) {
	defer func() {
		if s.Metrics != nil {
			s.Metrics.RemindersCreated(created)
			s.Metrics.ReminderRun(err)
		}
	}()

	day := startOfDay(s.Now())
	users, err := s.Users.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	var errs []error
	for _, u := range users {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		ok, rerr := s.remind(ctx, u, day)
		if rerr != nil {
			errs = append(errs, rerr)
			if s.Logger != nil {
				s.Logger.WithError(rerr).WithField("user_id", u.ID).Warn("daily reminder failed")
			}
			continue
		}
		if ok {
			created++
		}
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"day": day.Format(entity.DayLayout), "users": len(users), "created": created}).Info("daily reminders done")
	}
	return created, errors.Join(errs...)
}

func (s *ReminderService) remind(ctx context.Context, u *entity.User, day time.Time) (bool, error) {
	wrote, err := s.Diary.ExistsCreatedBetween(ctx, u.ID, day, day.AddDate(0, 0, 1))
	if err != nil || wrote {
		return false, err
	}
	exists, err := s.Reminders.ExistsForDay(ctx, u.ID, day)
	if err != nil || exists {
		return false, err
	}
	now := s.Now().UTC()
	r := &entity.Reminder{Date: day, Message: ReminderMessage}
	r.ID, r.OwnerID, r.CreatedAt, r.UpdatedAt = uuid.NewString(), u.ID, now, now
	if err := s.Reminders.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	s.enqueueEmail(ctx, u, day)
	return true, nil
}

func (s *ReminderService) enqueueEmail(ctx context.Context, u *entity.User, day time.Time) {
	if !s.MailEnabled || s.Jobs == nil {
		return
	}
	job := mailer.ReminderJob(u.Email, u.Name, day.Format(entity.DayLayout), ReminderMessage)
	if err := s.Jobs.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue reminder email failed")
	}
}

// Today lists ownerID's reminders for the current UTC day.
func (s *ReminderService) Today(ctx context.Context, ownerID string) ([]*entity.Reminder, error) {
	day := startOfDay(s.Now())
	items, err := s.Reminders.FindByOwnerBetween(ctx, ownerID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, apperror.Unavailable(err)
	}
	return items, nil
}

func (s *ReminderService) MarkSeen(ctx context.Context, ownerID, id string) (*entity.Reminder, error) {
	return s.entries.Update(ctx, ownerID, id, func(r *entity.Reminder) error {
		r.Seen = true
		return nil
	})
}
