package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/codyseavey/tcg-catalog/internal/metrics"
	"github.com/codyseavey/tcg-catalog/internal/models"
)

// SlabsCategoryKey is the CategoryKey carried by the slabs view state
const SlabsCategoryKey = "slabs"

// viewKey separates category views from the slabs view so no sheet type can alias it
type viewKey struct {
	slabs    bool
	category string
}

// Session is one browser's view state: a QuerySpec per category plus one for slabs
type Session struct {
	ID string

	mu       sync.Mutex
	pageSize int
	specs    map[viewKey]*models.QuerySpec
}

func newSession(id string, pageSize int) *Session {
	return &Session{
		ID:       id,
		pageSize: pageSize,
		specs:    make(map[viewKey]*models.QuerySpec),
	}
}

// Spec returns a copy of the view state for a category, creating the default state on first use
func (s *Session) Spec(category string) models.QuerySpec {
	return s.view(viewKey{category: category}, nil)
}

// Update applies fn to the view state for a category and returns a copy of the result
func (s *Session) Update(category string, fn func(*models.QuerySpec)) models.QuerySpec {
	return s.view(viewKey{category: category}, fn)
}

// SlabSpec returns a copy of the slabs view state
func (s *Session) SlabSpec() models.QuerySpec {
	return s.view(viewKey{slabs: true}, nil)
}

// UpdateSlabs applies fn to the slabs view state
func (s *Session) UpdateSlabs(fn func(*models.QuerySpec)) models.QuerySpec {
	return s.view(viewKey{slabs: true}, fn)
}

func (s *Session) view(key viewKey, fn func(*models.QuerySpec)) models.QuerySpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, ok := s.specs[key]
	if !ok {
		categoryKey := key.category
		if key.slabs {
			categoryKey = SlabsCategoryKey
		}
		spec = models.NewQuerySpec(categoryKey, s.pageSize)
		s.specs[key] = spec
	}
	if fn != nil {
		fn(spec)
	}
	return copySpec(spec)
}

func copySpec(spec *models.QuerySpec) models.QuerySpec {
	out := *spec
	if spec.PriceRange != nil {
		r := *spec.PriceRange
		out.PriceRange = &r
	}
	return out
}

// SessionStore keeps the most recently used sessions in memory
type SessionStore struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *Session]
	pageSize int
}

func NewSessionStore(capacity, pageSize int) (*SessionStore, error) {
	if capacity <= 0 {
		capacity = 1024
	}
	cache, err := lru.New[string, *Session](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &SessionStore{sessions: cache, pageSize: pageSize}, nil
}

// Get returns the session for id. Unknown ids get a fresh session; an id that
// is not a UUID is replaced with a new one.
func (st *SessionStore) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if parsed, err := uuid.Parse(id); err == nil {
		id = parsed.String()
		if s, ok := st.sessions.Get(id); ok {
			return s
		}
	} else {
		id = uuid.NewString()
	}

	s := newSession(id, st.pageSize)
	st.sessions.Add(id, s)
	metrics.ActiveSessions.Set(float64(st.sessions.Len()))
	return s
}

// Len returns the number of sessions held
func (st *SessionStore) Len() int {
	return st.sessions.Len()
}
