package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
)

type oauthKey struct {
	provider entity.Provider
	id       string
}

// UserStore enforces the same uniqueness rules as the users table:
// one account per email and per (provider, oauth id).
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string
	byOAuth map[oauthKey]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]entity.User),
		byEmail: make(map[string]string),
		byOAuth: make(map[oauthKey]string),
	}
}

func (s *UserStore) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := entity.NormalizeEmail(u.Email)
	if _, ok := s.byID[u.ID]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := s.byEmail[email]; ok {
		return repository.ErrDuplicate
	}
	key := oauthKey{u.Provider, u.OAuthID}
	if u.OAuthID != "" {
		if _, ok := s.byOAuth[key]; ok {
			return repository.ErrDuplicate
		}
		s.byOAuth[key] = u.ID
	}
	u.Email = email
	s.byID[u.ID] = *u
	s.byEmail[email] = u.ID
	return nil
}

func (s *UserStore) Save(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name, cur.PasswordHash, cur.UpdatedAt = u.Name, u.PasswordHash, u.UpdatedAt
	s.byID[u.ID] = cur
	return nil
}

func (s *UserStore) get(id string, ok bool) (*entity.User, error) {
	if !ok {
		return nil, repository.ErrNotFound
	}
	u, found := s.byID[id]
	if !found {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id, true)
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[entity.NormalizeEmail(email)]
	return s.get(id, ok)
}

func (s *UserStore) FindByOAuthID(_ context.Context, provider entity.Provider, oauthID string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byOAuth[oauthKey{provider, oauthID}]
	return s.get(id, ok)
}

func (s *UserStore) ListAll(_ context.Context) ([]*entity.User, error) {
	s.mu.RLock()
	out := make([]*entity.User, 0, len(s.byID))
	for _, u := range s.byID {
		u := u
		out = append(out, &u)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

var _ repository.UserRepository = (*UserStore)(nil)
