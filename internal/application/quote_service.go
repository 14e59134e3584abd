package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
)

// quoteAttempts bounds how many times a repeat quote is re-rolled.
const quoteAttempts = 5

type QuoteSource interface {
	Random(ctx context.Context) (entity.Quote, error)
}

type QuoteStore interface {
	Today(ctx context.Context, day string) (entity.Quote, bool, error)
	Recent(ctx context.Context) ([]string, error)
	Save(ctx context.Context, day string, q entity.Quote) error
}

// ErrQuoteUpstream is returned when no quote could be fetched.
var ErrQuoteUpstream = apperror.New(apperror.KindUnavailable, "failed to fetch quote")

type QuoteService struct {
	Source QuoteSource
	Store  QuoteStore
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewQuoteService(source QuoteSource, store QuoteStore, logger *logrus.Logger) *QuoteService {
	return &QuoteService{Source: source, Store: store, Logger: logger, Now: time.Now}
}

// Today returns the quote picked for the current UTC day, picking one on the
// first call of the day. Up to quoteAttempts fetches are spent avoiding any
// recently served quote; after that the next fetch is used as is.
func (s *QuoteService) Today(ctx context.Context) (entity.Quote, error) {
	day := s.Now().UTC().Format(entity.DayLayout)
	if q, ok, err := s.Store.Today(ctx, day); err == nil && ok {
		return q, nil
	} else if err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("quote cache read failed")
	}

	used := map[string]bool{}
	if recent, err := s.Store.Recent(ctx); err == nil {
		for _, text := range recent {
			used[text] = true
		}
	}

	var picked *entity.Quote
	for i := 0; i < quoteAttempts; i++ {
		q, err := s.Source.Random(ctx)
		if err != nil {
			return entity.Quote{}, s.upstream(err)
		}
		if !used[q.Text] {
			picked = &q
			break
		}
	}
	if picked == nil {
		q, err := s.Source.Random(ctx)
		if err != nil {
			return entity.Quote{}, s.upstream(err)
		}
		picked = &q
	}

	if err := s.Store.Save(ctx, day, *picked); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("quote cache write failed")
	}
	return *picked, nil
}

func (s *QuoteService) upstream(err error) error {
	if s.Logger != nil {
		s.Logger.WithError(err).Warn("quote fetch failed")
	}
	e := *ErrQuoteUpstream
	e.Err = err
	return &e
}
