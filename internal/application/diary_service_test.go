package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
)

type fakeIndex struct {
	docs    map[string]*entity.DiaryEntry
	hits    []string
	failing bool
}

func (f *fakeIndex) Put(_ context.Context, e *entity.DiaryEntry) error {
	f.docs[e.ID] = e
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, string, int) ([]string, error) {
	if f.failing {
		return nil, errors.New("es down")
	}
	return f.hits, nil
}

type countingFailures struct{ n int }

func (c *countingFailures) SearchIndexFailed() { c.n++ }

func TestDiaryService_IndexesWrites(t *testing.T) {
	idx := &fakeIndex{docs: map[string]*entity.DiaryEntry{}}
	svc := NewDiaryService(memory.NewDiaryStore(), idx, helpers.NopLogger())
	ctx := context.Background()

	e, err := svc.Create(ctx, alice, &entity.DiaryEntry{Title: "river", Content: "walk"})
	require.NoError(t, err)
	assert.Contains(t, idx.docs, e.ID)
	assert.Equal(t, entity.DefaultMusicKey, e.MusicKey)

	require.NoError(t, svc.Delete(ctx, alice, e.ID))
	assert.NotContains(t, idx.docs, e.ID)
}

func TestDiaryService_SearchRechecksOwnership(t *testing.T) {
	idx := &fakeIndex{docs: map[string]*entity.DiaryEntry{}}
	svc := NewDiaryService(memory.NewDiaryStore(), idx, helpers.NopLogger())
	ctx := context.Background()
	mine, err := svc.Create(ctx, alice, &entity.DiaryEntry{Title: "river"})
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, bob, &entity.DiaryEntry{Title: "river"})
	require.NoError(t, err)

	idx.hits = []string{theirs.ID, mine.ID, "gone"}
	got, err := svc.Search(ctx, alice, "river")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}

func TestDiaryService_SearchFallsBackToScan(t *testing.T) {
	idx := &fakeIndex{docs: map[string]*entity.DiaryEntry{}, failing: true}
	failures := &countingFailures{}
	svc := NewDiaryService(memory.NewDiaryStore(), idx, helpers.NopLogger())
	svc.Failures = failures
	ctx := context.Background()
	_, err := svc.Create(ctx, alice, &entity.DiaryEntry{Title: "Morning", Content: "By the RIVER"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, &entity.DiaryEntry{Title: "Evening", Content: "home"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, &entity.DiaryEntry{Title: "river too"})
	require.NoError(t, err)

	got, err := svc.Search(ctx, alice, "river")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Morning", got[0].Title)
	assert.Equal(t, 1, failures.n)

	_, err = svc.Search(ctx, alice, "  ")
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}

func TestDiaryService_NoIndex(t *testing.T) {
	svc := NewDiaryService(memory.NewDiaryStore(), nil, helpers.NopLogger())
	ctx := context.Background()
	_, err := svc.Create(ctx, alice, &entity.DiaryEntry{Title: "river"})
	require.NoError(t, err)

	got, err := svc.Search(ctx, alice, "RIV")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
