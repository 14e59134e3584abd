package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
)

const (
	quoteTodayKey   = "quotes:today"
	quoteHistoryKey = "quotes:history"
	// HistorySize is how many past quotes are remembered to avoid repeats.
	HistorySize = 365
	// a cached quote is only served on the day it was picked
	quoteTodayTTL = 48 * time.Hour
)

type dailyQuote struct {
	Day   string       `json:"day"`
	Quote entity.Quote `json:"quote"`
}

type RedisQuotes struct {
	rdb redis.Cmdable
}

func NewRedisQuotes(rdb redis.Cmdable) *RedisQuotes {
	return &RedisQuotes{rdb: rdb}
}

// Today returns the cached quote if it was picked on day.
func (s *RedisQuotes) Today(ctx context.Context, day string) (entity.Quote, bool, error) {
	var dq dailyQuote
	ok, err := getJSON(ctx, s.rdb, quoteTodayKey, &dq)
	if err != nil || !ok || dq.Day != day {
		return entity.Quote{}, false, err
	}
	return dq.Quote, true, nil
}

// Recent returns the texts of recently served quotes, newest first.
func (s *RedisQuotes) Recent(ctx context.Context) ([]string, error) {
	return s.rdb.LRange(ctx, quoteHistoryKey, 0, HistorySize-1).Result()
}

func (s *RedisQuotes) Save(ctx context.Context, day string, q entity.Quote) error {
	if err := setJSON(ctx, s.rdb, quoteTodayKey, dailyQuote{Day: day, Quote: q}, quoteTodayTTL); err != nil {
		return err
	}
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, quoteHistoryKey, q.Text)
		p.LTrim(ctx, quoteHistoryKey, 0, HistorySize-1)
		return nil
	})
	return err
}

type MemoryQuotes struct {
	mu      sync.Mutex
	today   *dailyQuote
	history []string
}

func NewMemoryQuotes() *MemoryQuotes { return &MemoryQuotes{} }

func (s *MemoryQuotes) Today(_ context.Context, day string) (entity.Quote, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.today == nil || s.today.Day != day {
		return entity.Quote{}, false, nil
	}
	return s.today.Quote, true, nil
}

func (s *MemoryQuotes) Recent(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...), nil
}

func (s *MemoryQuotes) Save(_ context.Context, day string, q entity.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = &dailyQuote{Day: day, Quote: q}
	s.history = append([]string{q.Text}, s.history...)
	if len(s.history) > HistorySize {
		s.history = s.history[:HistorySize]
	}
	return nil
}
