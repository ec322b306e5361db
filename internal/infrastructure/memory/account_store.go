package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserStore)(nil)
	_ repository.CompanyRepository = (*CompanyStore)(nil)
)

// UserStore in-memory accounts.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*entity.User)}
}

func (s *UserStore) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return domain.ErrUsernameTaken
		}
		if u.Email != "" && strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (s *UserStore) find(match func(*entity.User) bool) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) })
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return email != "" && strings.EqualFold(u.Email, email) })
}

func (s *UserStore) Update(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for id, existing := range s.users {
		if id != u.ID && u.Email != "" && strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	s.users[u.ID] = &c
	return nil
}

// CompanyStore in-memory company profiles keyed by tenant.
type CompanyStore struct {
	mu       sync.RWMutex
	profiles map[string]*entity.CompanyProfile
}

func NewCompanyStore() *CompanyStore {
	return &CompanyStore{profiles: make(map[string]*entity.CompanyProfile)}
}

func (s *CompanyStore) GetByTenant(_ context.Context, tenantID string) (*entity.CompanyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *CompanyStore) Upsert(_ context.Context, p *entity.CompanyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *p
	s.profiles[p.TenantID] = &c
	return nil
}
