package out

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"efforts/internal/modules/session/domain"
	sessionout "efforts/internal/modules/session/port/out"
)

// CachedSessionStore serves Get from an LRU of recently written or read
// sessions. Range queries always go to the backing store.
type CachedSessionStore struct {
	next  sessionout.SessionStore
	cache *lru.Cache[string, domain.Session]
}

func NewCachedSessionStore(next sessionout.SessionStore, size int) (*CachedSessionStore, error) {
	cache, err := lru.New[string, domain.Session](size)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &CachedSessionStore{next: next, cache: cache}, nil
}

func (s *CachedSessionStore) Put(ctx context.Context, session domain.Session) (string, error) {
	id, err := s.next.Put(ctx, session)
	if err != nil {
		s.cache.Remove(session.ID)
		return "", err
	}
	s.cache.Add(id, session)
	return id, nil
}

func (s *CachedSessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	if session, ok := s.cache.Get(id); ok {
		return session, nil
	}
	session, err := s.next.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	s.cache.Add(id, session)
	return session, nil
}

func (s *CachedSessionStore) GetAll(ctx context.Context) ([]domain.Session, error) {
	return s.next.GetAll(ctx)
}

func (s *CachedSessionStore) GetActive(ctx context.Context) (domain.Session, error) {
	return s.next.GetActive(ctx)
}

func (s *CachedSessionStore) GetInRange(ctx context.Context, start, end time.Time) ([]domain.Session, error) {
	return s.next.GetInRange(ctx, start, end)
}

func (s *CachedSessionStore) GetForDay(ctx context.Context, date time.Time) ([]domain.Session, error) {
	return s.next.GetForDay(ctx, date)
}

func (s *CachedSessionStore) Delete(ctx context.Context, id string) error {
	s.cache.Remove(id)
	return s.next.Delete(ctx, id)
}

func (s *CachedSessionStore) Len() int {
	return s.cache.Len()
}
