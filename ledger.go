package main

import (
	"context"
	"errors"
)

// Ledger-level validation errors.
var (
	ErrSelfSwipe      = errors.New("cannot swipe on yourself")
	ErrAlreadyDecided = errors.New("decision already recorded for this pair")
)

// Ledger is the append-only record of swipe decisions. Each (actor, target)
// pair holds at most one decision; the store's uniqueness constraint makes
// the first write win without any locking here.
//
// Duplicate policy: lenient by default (a re-swipe is a silent no-op).
// Strict mode surfaces ErrAlreadyDecided instead.
type Ledger struct {
	store  Store
	strict bool
}

func newLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Record appends one decision about target and returns the decision that
// stands for the pair afterwards. When an earlier decision exists the write
// is a no-op and the stored decision wins, so callers must not assume the
// returned value equals their input. Self-swipes are rejected before
// touching storage.
func (l *Ledger) Record(ctx context.Context, actorID, targetID int, decision string) (string, error) {
	if actorID == targetID {
		return "", ErrSelfSwipe
	}
	created, err := l.store.RecordSwipe(ctx, actorID, targetID, decision)
	if err != nil {
		return "", err
	}
	if created {
		return decision, nil
	}
	if l.strict {
		return "", ErrAlreadyDecided
	}
	stored, ok, err := l.store.Decision(ctx, actorID, targetID)
	if err != nil {
		return "", err
	}
	if !ok {
		return decision, nil
	}
	return stored, nil
}

// HasDecision returns the stored decision for (actor, target), if any.
func (l *Ledger) HasDecision(ctx context.Context, actorID, targetID int) (string, bool, error) {
	return l.store.Decision(ctx, actorID, targetID)
}

// DecisionsBy returns every decision actor has made, keyed by target id.
// The feed builder uses this to exclude already-judged profiles.
func (l *Ledger) DecisionsBy(ctx context.Context, actorID int) (map[int]string, error) {
	return l.store.DecisionsBy(ctx, actorID)
}
