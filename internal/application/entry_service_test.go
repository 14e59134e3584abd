package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
)

const (
	alice = "alice"
	bob   = "bob"
)

func newPersonal() *EntryService[*entity.PersonalEntry] {
	return NewEntryService[*entity.PersonalEntry]("personal", memory.NewPersonalStore(), helpers.NopLogger())
}

func TestAuthorizer_Decisions(t *testing.T) {
	svc := newPersonal()
	ctx := context.Background()
	e, err := svc.Create(ctx, alice, &entity.PersonalEntry{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, d, err := svc.Auth.Authorize(ctx, alice, e.ID)
	require.NoError(t, err)
	assert.Equal(t, Allowed, d)

	got, d, err := svc.Auth.Authorize(ctx, bob, e.ID)
	require.NoError(t, err)
	assert.Equal(t, Forbidden, d)
	assert.Nil(t, got, "a forbidden resource is never handed out")

	_, d, err = svc.Auth.Authorize(ctx, alice, "missing")
	require.NoError(t, err)
	assert.Equal(t, NotFound, d)
}

type brokenStore struct{}

func (brokenStore) FindByID(context.Context, string) (*entity.PersonalEntry, error) {
	return nil, errors.New("timeout")
}

func TestAuthorizer_StoreFailure(t *testing.T) {
	a := NewAuthorizer[*entity.PersonalEntry](brokenStore{})
	_, _, err := a.Authorize(context.Background(), alice, "x")
	assert.Equal(t, apperror.KindUnavailable, apperror.KindOf(err))
}

func TestCreate_AssignsOwnerAndDefaults(t *testing.T) {
	svc := newPersonal()
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	in := &entity.PersonalEntry{Title: "t", Content: "c"}
	in.ID, in.OwnerID = "client-chosen", bob
	e, err := svc.Create(context.Background(), alice, in)
	require.NoError(t, err)

	assert.NotEqual(t, "client-chosen", e.ID)
	assert.Equal(t, alice, e.OwnerID)
	assert.Equal(t, entity.DefaultCategory, e.Category)
	assert.Equal(t, entity.DefaultMood, e.Mood)
	assert.Equal(t, fixed, e.Date.Time)
	assert.NotNil(t, e.Images)
}

func TestCrossOwner_ReadUpdateDeleteRejected(t *testing.T) {
	svc := newPersonal()
	ctx := context.Background()
	e, err := svc.Create(ctx, alice, &entity.PersonalEntry{Title: "mine", Content: "secret"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, e.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	applied := false
	_, err = svc.Update(ctx, bob, e.ID, func(v *entity.PersonalEntry) error {
		applied = true
		v.Title = "stolen"
		return nil
	})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.False(t, applied, "update body must not be applied before authorization")

	err = svc.Delete(ctx, bob, e.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	still, err := svc.Get(ctx, alice, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", still.Title)
	assert.Equal(t, "secret", still.Content)
}

func TestUpdate_CannotReassignOwnerOrID(t *testing.T) {
	svc := newPersonal()
	ctx := context.Background()
	e, err := svc.Create(ctx, alice, &entity.PersonalEntry{Title: "t", Content: "c"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, alice, e.ID, func(v *entity.PersonalEntry) error {
		v.Title = "new"
		v.OwnerID = bob
		v.ID = "other"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, e.ID, updated.ID)
	assert.Equal(t, alice, updated.OwnerID)

	bobs, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)
}

func TestList_ScopedToOwner(t *testing.T) {
	svc := newPersonal()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, alice, &entity.PersonalEntry{Title: "a", Content: "c"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, bob, &entity.PersonalEntry{Title: "b", Content: "c"})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.Equal(t, alice, it.OwnerID)
	}
}

func TestListByDay(t *testing.T) {
	svc := newPersonal()
	ctx := context.Background()
	day := entity.FlexTime{Time: time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)}
	_, err := svc.Create(ctx, alice, &entity.PersonalEntry{Title: "a", Content: "c", Date: day})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, &entity.PersonalEntry{Title: "b", Content: "c", Date: entity.FlexTime{Time: day.AddDate(0, 0, 1)}})
	require.NoError(t, err)

	items, err := svc.ListByDay(ctx, alice, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Title)

	_, err = svc.ListByDay(ctx, alice, "03/01/2024")
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}

func TestScheduleCheckAndToggle(t *testing.T) {
	svc := NewEntryService[*entity.ScheduleItem]("schedule", memory.NewScheduleStore(), helpers.NopLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, &entity.ScheduleItem{Title: "no date"})
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	item, err := svc.Create(ctx, alice, &entity.ScheduleItem{Title: "standup", Date: entity.FlexTime{Time: time.Now()}})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPriority, item.Priority)
	assert.False(t, item.Completed)

	toggled, err := ToggleComplete(ctx, svc, alice, item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	_, err = ToggleComplete(ctx, svc, bob, item.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	back, err := ToggleComplete(ctx, svc, alice, item.ID)
	require.NoError(t, err)
	assert.False(t, back.Completed)
}

type fakeImages struct {
	calls int
	err   error
}

func (f *fakeImages) Upload(_ context.Context, kind, ownerID, _ string, r io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	return "https://img.test/" + kind + "/" + ownerID + "/" + string(b), nil
}

func TestAttachImage(t *testing.T) {
	svc := newPersonal()
	images := &fakeImages{}
	svc.Images = images
	ctx := context.Background()
	e, err := svc.Create(ctx, alice, &entity.PersonalEntry{Title: "t", Content: "c"})
	require.NoError(t, err)

	got, err := svc.AttachImage(ctx, alice, e.ID, "image/png", strings.NewReader("one"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img.test/personal/alice/one"}, got.Images)

	_, err = svc.AttachImage(ctx, bob, e.ID, "image/png", strings.NewReader("two"))
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.Equal(t, 1, images.calls, "nothing is uploaded for a foreign entry")

	images.err = apperror.InvalidInput("unsupported image type", nil)
	_, err = svc.AttachImage(ctx, alice, e.ID, "text/plain", strings.NewReader("x"))
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}

func TestAttachImage_KindWithoutImages(t *testing.T) {
	svc := NewEntryService[*entity.ScheduleItem]("schedule", memory.NewScheduleStore(), helpers.NopLogger())
	svc.Images = &fakeImages{}
	_, err := svc.AttachImage(context.Background(), alice, "x", "image/png", strings.NewReader(""))
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}
