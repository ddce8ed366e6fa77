package main

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Errors the store classifies for callers. Anything else coming out of a
// Store method is a storage failure and is surfaced unmodified.
var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store is the persistence contract behind the ledger, the match resolver and
// the feed builder. The two insert-if-absent methods (RecordSwipe,
// CreateMatch) are the only points that require cross-request coordination;
// implementations enforce them with uniqueness constraints, never with
// application-level locking.
type Store interface {
	// Users & profiles
	CreateUser(ctx context.Context, email, passwordHash string, profile Profile) (int, error)
	Credentials(ctx context.Context, email string) (userID int, passwordHash string, err error)
	GetProfile(ctx context.Context, userID int) (Profile, error)
	UpdateProfile(ctx context.Context, userID int, upd ProfileUpdate) (Profile, error)
	// ListProfiles returns every profile ordered by creation time, id as
	// tie-break, so feeds derived from it are deterministic.
	ListProfiles(ctx context.Context) ([]Profile, error)

	// Presence
	Ping(ctx context.Context, userID int) error
	IsOnlineNow(ctx context.Context, userID int) (bool, error)

	// Interaction ledger. RecordSwipe inserts at most one decision per
	// ordered (actor, target) pair and reports whether a row was created;
	// a duplicate is not an error.
	RecordSwipe(ctx context.Context, actorID, targetID int, decision string) (created bool, err error)
	Decision(ctx context.Context, actorID, targetID int) (decision string, ok bool, err error)
	DecisionsBy(ctx context.Context, actorID int) (map[int]string, error)
	HasLike(ctx context.Context, actorID, targetID int) (bool, error)

	// Matches. CreateMatch inserts at most one row per unordered pair and
	// returns the winning row either way; created reports whether this call
	// inserted it.
	CreateMatch(ctx context.Context, a, b int) (m Match, created bool, err error)
	MatchesOf(ctx context.Context, userID int) ([]Match, error)
	Matched(ctx context.Context, a, b int) (bool, error)

	// Messages
	SaveMessage(ctx context.Context, senderID, recipientID int, content string) (Message, error)
	// Conversation returns up to limit messages between userID and peerID in
	// ascending time order and marks the peer's messages as read.
	Conversation(ctx context.Context, userID, peerID, limit int) ([]Message, error)
}

// pgStore is the PostgreSQL-backed Store.
type pgStore struct {
	db *sql.DB
}

func newPGStore(db *sql.DB) *pgStore {
	return &pgStore{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *pgStore) CreateUser(ctx context.Context, email, passwordHash string, profile Profile) (int, error) {
	var id int
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO users (email, password_hash, last_online)
			VALUES ($1, $2, NOW())
			RETURNING id
		`, email, passwordHash).Scan(&id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, name, bio, age, gender, gender_preference, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, profile.Name, profile.Bio, profile.Age, profile.Gender, profile.GenderPreference, profile.ImageURL)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return id, nil
}

func (s *pgStore) Credentials(ctx context.Context, email string) (int, string, error) {
	var (
		id   int
		hash string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE email = $1`, email,
	).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return 0, "", ErrNotFound
	}
	return id, hash, err
}

func (s *pgStore) GetProfile(ctx context.Context, userID int) (Profile, error) {
	var p Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, name, COALESCE(bio, ''), age, gender, gender_preference,
		       COALESCE(image_url, ''), created_at
		FROM profiles
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.Name, &p.Bio, &p.Age, &p.Gender, &p.GenderPreference, &p.ImageURL, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (s *pgStore) UpdateProfile(ctx context.Context, userID int, upd ProfileUpdate) (Profile, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = $2,
		    bio = $3,
		    age = $4,
		    gender = $5,
		    gender_preference = $6,
		    image_url = COALESCE(NULLIF($7, ''), image_url)
		WHERE user_id = $1
	`, userID, upd.Name, upd.Bio, upd.Age, upd.Gender, upd.GenderPreference, upd.ImageURL)
	if err != nil {
		return Profile{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Profile{}, ErrNotFound
	}
	return s.GetProfile(ctx, userID)
}

func (s *pgStore) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, name, COALESCE(bio, ''), age, gender, gender_preference,
		       COALESCE(image_url, ''), created_at
		FROM profiles
		ORDER BY created_at ASC, user_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.UserID, &p.Name, &p.Bio, &p.Age, &p.Gender, &p.GenderPreference, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *pgStore) Ping(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_online = NOW() WHERE id = $1`, userID)
	return err
}

func (s *pgStore) IsOnlineNow(ctx context.Context, userID int) (bool, error) {
	var online bool
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(last_online > NOW() - INTERVAL '90 seconds', FALSE) AS online
		FROM users
		WHERE id = $1
	`, userID).Scan(&online)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return online, err
}

func (s *pgStore) RecordSwipe(ctx context.Context, actorID, targetID int, decision string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO swipes (actor_id, target_id, decision)
		VALUES ($1, $2, $3)
		ON CONFLICT (actor_id, target_id) DO NOTHING
	`, actorID, targetID, decision)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *pgStore) Decision(ctx context.Context, actorID, targetID int) (string, bool, error) {
	var decision string
	err := s.db.QueryRowContext(ctx,
		`SELECT decision FROM swipes WHERE actor_id = $1 AND target_id = $2`,
		actorID, targetID,
	).Scan(&decision)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return decision, true, nil
}

func (s *pgStore) DecisionsBy(ctx context.Context, actorID int) (map[int]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target_id, decision FROM swipes WHERE actor_id = $1`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decisions := make(map[int]string)
	for rows.Next() {
		var (
			target   int
			decision string
		)
		if err := rows.Scan(&target, &decision); err != nil {
			return nil, err
		}
		decisions[target] = decision
	}
	return decisions, rows.Err()
}

func (s *pgStore) HasLike(ctx context.Context, actorID, targetID int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM swipes
			WHERE actor_id = $1 AND target_id = $2 AND decision = 'like'
		)
	`, actorID, targetID).Scan(&exists)
	return exists, err
}

func (s *pgStore) CreateMatch(ctx context.Context, a, b int) (Match, bool, error) {
	var m Match
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO matches (id, user_lo, user_hi)
		VALUES ($1, LEAST($2::int, $3::int), GREATEST($2::int, $3::int))
		ON CONFLICT (user_lo, user_hi) DO NOTHING
		RETURNING id, user_lo, user_hi, created_at
	`, uuid.New().String(), a, b).Scan(&m.ID, &m.UserLo, &m.UserHi, &m.CreatedAt)
	if err == nil {
		return m, true, nil
	}
	if err != sql.ErrNoRows {
		return Match{}, false, err
	}

	// Lost the race: another request inserted the pair first. Refetch.
	err = s.db.QueryRowContext(ctx, `
		SELECT id, user_lo, user_hi, created_at
		FROM matches
		WHERE user_lo = LEAST($1::int, $2::int) AND user_hi = GREATEST($1::int, $2::int)
	`, a, b).Scan(&m.ID, &m.UserLo, &m.UserHi, &m.CreatedAt)
	if err != nil {
		return Match{}, false, err
	}
	return m, false, nil
}

func (s *pgStore) MatchesOf(ctx context.Context, userID int) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_lo, user_hi, created_at
		FROM matches
		WHERE user_lo = $1 OR user_hi = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.UserLo, &m.UserHi, &m.CreatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *pgStore) Matched(ctx context.Context, a, b int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE user_lo = LEAST($1::int, $2::int) AND user_hi = GREATEST($1::int, $2::int)
		)
	`, a, b).Scan(&exists)
	return exists, err
}

func (s *pgStore) SaveMessage(ctx context.Context, senderID, recipientID int, content string) (Message, error) {
	var msg Message
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		// Messaging is only allowed between matched users.
		var ok int
		err := tx.QueryRowContext(ctx, `
			SELECT 1 FROM matches
			WHERE user_lo = LEAST($1::int, $2::int) AND user_hi = GREATEST($1::int, $2::int)
			LIMIT 1
		`, senderID, recipientID).Scan(&ok)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return tx.QueryRowContext(ctx, `
			INSERT INTO messages (sender_id, recipient_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, sender_id, recipient_id, content, created_at, is_read
		`, senderID, recipientID, content).Scan(
			&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.Content, &msg.CreatedAt, &msg.IsRead)
	})
	return msg, err
}

func (s *pgStore) Conversation(ctx context.Context, userID, peerID, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender_id, recipient_id, content, created_at, is_read
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC, id ASC
		LIMIT $3
	`, userID, peerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]Message, 0, limit)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.CreatedAt, &m.IsRead); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		// Don't mark as read if the query failed
		return nil, err
	}

	// A failed mark-read must not fail the fetch, but it should be visible.
	if _, err := s.db.ExecContext(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE sender_id = $2 AND recipient_id = $1 AND is_read IS FALSE
	`, userID, peerID); err != nil {
		log.Println("Failed to mark conversation as read:", err)
	}

	return msgs, nil
}
