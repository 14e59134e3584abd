package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
)

// DiarySearcher is a full-text index over diary entries.
type DiarySearcher interface {
	Put(ctx context.Context, e *entity.DiaryEntry) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, ownerID, q string, size int) ([]string, error)
}

// IndexFailures is notified when the search index could not be updated.
type IndexFailures interface {
	SearchIndexFailed()
}

// DiaryService adds search on top of the generic entry operations.
type DiaryService struct {
	*EntryService[*entity.DiaryEntry]
	Index    DiarySearcher
	Failures IndexFailures
}

func NewDiaryService(repo repository.DiaryRepository, index DiarySearcher, logger *logrus.Logger) *DiaryService {
	s := &DiaryService{EntryService: NewEntryService[*entity.DiaryEntry]("diary", repo, logger), Index: index}
	if index != nil {
		s.OnSaved = func(ctx context.Context, e *entity.DiaryEntry) { s.indexed(index.Put(ctx, e), e.ID) }
		s.OnDeleted = func(ctx context.Context, id string) { s.indexed(index.Remove(ctx, id), id) }
	}
	return s
}

func (s *DiaryService) indexed(err error, id string) {
	if err == nil {
		return
	}
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("entry_id", id).Warn("diary index update failed")
	}
	if s.Failures != nil {
		s.Failures.SearchIndexFailed()
	}
}

// Search returns ownerID's entries matching q. Hits from the index are
// re-read from the store and re-checked for ownership; without an index, or
// when it fails, the owner's entries are scanned instead.
func (s *DiaryService) Search(ctx context.Context, ownerID, q string) ([]*entity.DiaryEntry, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.InvalidInput("query is required", map[string]string{"q": "is required"})
	}
	if s.Index != nil {
		ids, err := s.Index.Search(ctx, ownerID, q, 20)
		if err == nil {
			return s.load(ctx, ownerID, ids)
		}
		s.indexed(err, "")
	}
	all, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	out := make([]*entity.DiaryEntry, 0)
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Title), needle) || strings.Contains(strings.ToLower(e.Content), needle) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *DiaryService) load(ctx context.Context, ownerID string, ids []string) ([]*entity.DiaryEntry, error) {
	out := make([]*entity.DiaryEntry, 0, len(ids))
	for _, id := range ids {
		e, d, err := s.Auth.Authorize(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		if d == Allowed {
			out = append(out, e)
		}
	}
	return out, nil
}
