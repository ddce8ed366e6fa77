package main

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore is an in-memory Store with the same uniqueness semantics as the
// Postgres implementation: one swipe per ordered pair, one match per
// canonical pair. A single mutex makes each method atomic, which is what the
// DB constraints give the real store.
type memStore struct {
	mu sync.Mutex

	nextUserID int
	emails     map[string]int // email -> user id
	passwords  map[int]string // user id -> bcrypt hash
	lastOnline map[int]time.Time
	profiles   map[int]Profile

	swipes  map[[2]int]Swipe // (actor, target) -> swipe
	matches map[[2]int]Match // (lo, hi) -> match

	nextMsgID int64
	messages  []Message

	// Fake clock: each write advances it so creation order is total.
	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		emails:     make(map[string]int),
		passwords:  make(map[int]string),
		lastOnline: make(map[int]time.Time),
		profiles:   make(map[int]Profile),
		swipes:     make(map[[2]int]Swipe),
		matches:    make(map[[2]int]Match),
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func pairKey(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

func (s *memStore) CreateUser(_ context.Context, email, passwordHash string, profile Profile) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[email]; taken {
		return 0, ErrEmailTaken
	}
	s.nextUserID++
	id := s.nextUserID
	s.emails[email] = id
	s.passwords[id] = passwordHash
	s.lastOnline[id] = s.clock

	profile.UserID = id
	profile.CreatedAt = s.tick()
	s.profiles[id] = profile
	return id, nil
}

func (s *memStore) Credentials(_ context.Context, email string) (int, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[email]
	if !ok {
		return 0, "", ErrNotFound
	}
	return id, s.passwords[id], nil
}

func (s *memStore) GetProfile(_ context.Context, userID int) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *memStore) UpdateProfile(_ context.Context, userID int, upd ProfileUpdate) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	p.Name = upd.Name
	p.Bio = upd.Bio
	p.Age = upd.Age
	p.Gender = upd.Gender
	p.GenderPreference = upd.GenderPreference
	if upd.ImageURL != "" {
		p.ImageURL = upd.ImageURL
	}
	s.profiles[userID] = p
	return p, nil
}

func (s *memStore) ListProfiles(_ context.Context) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if !profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
		}
		return profiles[i].UserID < profiles[j].UserID
	})
	return profiles, nil
}

func (s *memStore) Ping(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOnline[userID] = s.tick()
	return nil
}

func (s *memStore) IsOnlineNow(_ context.Context, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastOnline[userID]
	if !ok {
		return false, nil
	}
	return s.clock.Sub(last) < 90*time.Second, nil
}

func (s *memStore) RecordSwipe(_ context.Context, actorID, targetID int, decision string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int{actorID, targetID}
	if _, exists := s.swipes[key]; exists {
		return false, nil
	}
	s.swipes[key] = Swipe{
		ActorID:   actorID,
		TargetID:  targetID,
		Decision:  decision,
		CreatedAt: s.tick(),
	}
	return true, nil
}

func (s *memStore) Decision(_ context.Context, actorID, targetID int) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, ok := s.swipes[[2]int{actorID, targetID}]
	if !ok {
		return "", false, nil
	}
	return sw.Decision, true, nil
}

func (s *memStore) DecisionsBy(_ context.Context, actorID int) (map[int]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decisions := make(map[int]string)
	for key, sw := range s.swipes {
		if key[0] == actorID {
			decisions[key[1]] = sw.Decision
		}
	}
	return decisions, nil
}

func (s *memStore) HasLike(_ context.Context, actorID, targetID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, ok := s.swipes[[2]int{actorID, targetID}]
	return ok && sw.Decision == DecisionLike, nil
}

func (s *memStore) CreateMatch(_ context.Context, a, b int) (Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(a, b)
	if m, exists := s.matches[key]; exists {
		return m, false, nil
	}
	m := Match{
		ID:        uuid.New().String(),
		UserLo:    key[0],
		UserHi:    key[1],
		CreatedAt: s.tick(),
	}
	s.matches[key] = m
	return m, true, nil
}

func (s *memStore) MatchesOf(_ context.Context, userID int) ([]Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []Match
	for _, m := range s.matches {
		if m.UserLo == userID || m.UserHi == userID {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (s *memStore) Matched(_ context.Context, a, b int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.matches[pairKey(a, b)]
	return ok, nil
}

func (s *memStore) SaveMessage(_ context.Context, senderID, recipientID int, content string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[pairKey(senderID, recipientID)]; !ok {
		return Message{}, ErrNotFound
	}
	s.nextMsgID++
	msg := Message{
		ID:          s.nextMsgID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   s.tick(),
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *memStore) Conversation(_ context.Context, userID, peerID, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]Message, 0, limit)
	for i := range s.messages {
		m := &s.messages[i]
		between := (m.SenderID == userID && m.RecipientID == peerID) ||
			(m.SenderID == peerID && m.RecipientID == userID)
		if !between || len(msgs) >= limit {
			continue
		}
		if m.SenderID == peerID {
			m.IsRead = true
		}
		msgs = append(msgs, *m)
	}
	return msgs, nil
}

// matchCount is a test-only view of how many match rows exist.
func (s *memStore) matchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

// swipeCount is a test-only view of how many swipe rows exist.
func (s *memStore) swipeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.swipes)
}
