package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"electorate/contexts/election-core/election-engine/domain/entities"
	domainerrors "electorate/contexts/election-core/election-engine/domain/errors"
	"electorate/contexts/election-core/election-engine/ports"
	"electorate/internal/shared/events"
	"electorate/internal/shared/outbox"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   outbox.Message
	seq       int64
	published bool
}

// Store implements every election-engine port in process. The name
// reservation table, party lists, voter records, admin sets and winner sets
// live under one lock, so each repository call is atomic on its own; command
// sequences are serialized by the application-level keyed locks.
type Store struct {
	mu sync.RWMutex

	elections map[string]entities.Election
	names     map[string]string
	parties   map[string][]entities.Party
	voters    map[string]map[string]entities.VoterRecord
	admins    map[string]map[string]bool
	winners   map[string][]entities.WinnerEntry
	outbox    map[string]outboxRecord
	outboxSeq int64
}

func NewStore() *Store {
	return &Store{
		elections: make(map[string]entities.Election),
		names:     make(map[string]string),
		parties:   make(map[string][]entities.Party),
		voters:    make(map[string]map[string]entities.VoterRecord),
		admins:    make(map[string]map[string]bool),
		winners:   make(map[string][]entities.WinnerEntry),
		outbox:    make(map[string]outboxRecord),
	}
}

func (s *Store) CreateElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(election.ElectionKey)
	name := strings.TrimSpace(election.Name)
	if holder, reserved := s.names[name]; reserved && holder != key {
		return domainerrors.ErrNameTaken
	}
	s.elections[key] = election
	s.names[name] = key
	return nil
}

func (s *Store) UpdateElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(election.ElectionKey)
	current, ok := s.elections[key]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	name := strings.TrimSpace(election.Name)
	if holder, reserved := s.names[name]; reserved && holder != key {
		return domainerrors.ErrNameTaken
	}
	// Swap the reservation and the record together so a rename can never
	// leave a dangling entry.
	if current.Name != name {
		delete(s.names, current.Name)
	}
	s.names[name] = key
	s.elections[key] = election
	return nil
}

func (s *Store) GetElection(_ context.Context, electionKey string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionKey)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) ListElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		items = append(items, election)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) DeleteElection(_ context.Context, electionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(electionKey)
	election, ok := s.elections[key]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	delete(s.elections, key)
	delete(s.names, election.Name)
	delete(s.parties, key)
	delete(s.voters, key)
	delete(s.admins, key)
	delete(s.winners, key)
	return nil
}

func (s *Store) AddParty(_ context.Context, party entities.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(party.ElectionKey)
	s.parties[key] = append(s.parties[key], party)
	return nil
}

func (s *Store) ListParties(_ context.Context, electionKey string) ([]entities.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.parties[strings.TrimSpace(electionKey)]
	return append([]entities.Party(nil), items...), nil
}

func (s *Store) DeactivatePartiesByName(
	_ context.Context,
	electionKey string,
	name string,
	updatedAt time.Time,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(electionKey)
	name = strings.TrimSpace(name)
	deactivated := 0
	items := s.parties[key]
	for i, party := range items {
		if party.Name != name || party.Status != entities.PartyStatusActive {
			continue
		}
		party.Status = entities.PartyStatusInactive
		party.UpdatedAt = updatedAt.UTC()
		items[i] = party
		deactivated++
	}
	return deactivated, nil
}

func (s *Store) GetVoterRecord(_ context.Context, electionKey string, voterID string) (entities.VoterRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.voters[strings.TrimSpace(electionKey)]
	if !ok {
		return entities.VoterRecord{}, false, nil
	}
	record, ok := records[strings.TrimSpace(voterID)]
	if !ok {
		return entities.VoterRecord{}, false, nil
	}
	return record, true, nil
}

// CastBallot increments exactly one party's count and writes the voter
// record in a single mutation.
func (s *Store) CastBallot(
	_ context.Context,
	electionKey string,
	partyID string,
	record entities.VoterRecord,
) (entities.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(electionKey)
	voterID := strings.TrimSpace(record.VoterID)
	if existing, ok := s.voters[key][voterID]; ok && existing.Voted {
		return entities.Party{}, domainerrors.ErrAlreadyVoted
	}

	items := s.parties[key]
	for i, party := range items {
		if party.PartyID != strings.TrimSpace(partyID) {
			continue
		}
		party.VoteCount++
		party.UpdatedAt = record.VotedAt.UTC()
		items[i] = party

		if s.voters[key] == nil {
			s.voters[key] = make(map[string]entities.VoterRecord)
		}
		s.voters[key][voterID] = record
		return party, nil
	}
	return entities.Party{}, domainerrors.ErrPartyNotFound
}

func (s *Store) IsAdmin(_ context.Context, electionKey string, identity string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admins[strings.TrimSpace(electionKey)][strings.TrimSpace(identity)], nil
}

func (s *Store) AddAdmin(_ context.Context, electionKey string, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(electionKey)
	identity = strings.TrimSpace(identity)
	if s.admins[key][identity] {
		return domainerrors.ErrAdminExists
	}
	if s.admins[key] == nil {
		s.admins[key] = make(map[string]bool)
	}
	s.admins[key][identity] = true
	return nil
}

func (s *Store) RemoveAdmin(_ context.Context, electionKey string, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(electionKey)
	identity = strings.TrimSpace(identity)
	if !s.admins[key][identity] {
		return domainerrors.ErrAdminNotFound
	}
	delete(s.admins[key], identity)
	return nil
}

func (s *Store) ListAdmins(_ context.Context, electionKey string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := s.admins[strings.TrimSpace(electionKey)]
	items := make([]string, 0, len(members))
	for identity := range members {
		items = append(items, identity)
	}
	sort.Strings(items)
	return items, nil
}

func (s *Store) SaveWinners(_ context.Context, electionKey string, winners []entities.WinnerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(electionKey)
	if _, ok := s.winners[key]; ok {
		return domainerrors.ErrWinnerResolved
	}
	s.winners[key] = append([]entities.WinnerEntry(nil), winners...)
	return nil
}

func (s *Store) GetWinners(_ context.Context, electionKey string) ([]entities.WinnerEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	winners, ok := s.winners[strings.TrimSpace(electionKey)]
	if !ok {
		return nil, false, nil
	}
	return append([]entities.WinnerEntry(nil), winners...), true, nil
}

func (s *Store) AppendAudit(_ context.Context, envelope events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAtUTC.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outboxSeq++
	s.outbox[outboxID] = outboxRecord{
		message: outbox.Message{
			OutboxID:  outboxID,
			EventType: strings.TrimSpace(envelope.EventType),
			Payload:   payload,
			Status:    outbox.StatusPending,
			CreatedAt: createdAt,
		},
		seq: s.outboxSeq,
	}
	return nil
}

func (s *Store) ListPendingAudit(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	records := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		records = append(records, row)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].seq < records[j].seq
	})
	items := make([]outbox.Message, 0, len(records))
	for _, row := range records {
		items = append(items, row.message)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkAuditPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	row.message.Status = outbox.StatusPublished
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

// AuditTrail returns every appended envelope in append order. Test hook.
func (s *Store) AuditTrail() []outbox.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		records = append(records, row)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].seq < records[j].seq
	})
	items := make([]outbox.Message, 0, len(records))
	for _, row := range records {
		items = append(items, row.message)
	}
	return items
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.ElectionRepository = (*Store)(nil)
var _ ports.PartyRepository = (*Store)(nil)
var _ ports.BallotRepository = (*Store)(nil)
var _ ports.AdminRepository = (*Store)(nil)
var _ ports.WinnerRepository = (*Store)(nil)
var _ ports.AuditWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
