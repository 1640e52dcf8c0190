package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"electorate/contexts/identity-access/stewardship-service/domain/entities"
	"electorate/contexts/identity-access/stewardship-service/ports"
)

// Store keeps the owner record in process memory. It backs tests and the
// in-memory composition of the module.
type Store struct {
	mu          sync.RWMutex
	record      entities.Stewardship
	initialized bool
}

// NewStore seeds the owner record when initialOwner is non-empty.
func NewStore(initialOwner string) *Store {
	store := &Store{}
	initialOwner = strings.TrimSpace(initialOwner)
	if initialOwner != "" {
		store.record = entities.Stewardship{Owner: initialOwner, UpdatedAt: time.Now().UTC()}
		store.initialized = true
	}
	return store
}

func (s *Store) GetStewardship(_ context.Context) (entities.Stewardship, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record, s.initialized, nil
}

func (s *Store) SaveStewardship(_ context.Context, record entities.Stewardship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = record
	s.initialized = true
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var (
	_ ports.StewardshipRepository = (*Store)(nil)
	_ ports.Clock                 = (*Store)(nil)
	_ ports.IDGenerator           = (*Store)(nil)
)
