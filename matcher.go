package main

import "context"

// MatchOutcome is the result of processing a like.
type MatchOutcome int

const (
	// NoMatch: the target has not liked the actor (yet).
	NoMatch MatchOutcome = iota
	// NewMatch: this like completed the mutual pair and created the match.
	NewMatch
	// ExistingMatch: the pair was already matched; idempotent success, not
	// an error.
	ExistingMatch
)

func (o MatchOutcome) String() string {
	switch o {
	case NewMatch:
		return "new_match"
	case ExistingMatch:
		return "existing_match"
	default:
		return "no_match"
	}
}

// MatchNotifier receives the fact that a new match was created. Delivery to
// the two users is the notifier's concern, not the resolver's.
type MatchNotifier interface {
	NotifyNewMatch(pairID string, userA, userB int)
}

// MatchResolver owns the like -> match transition. It is the single
// authority on when a match exists; nothing else in the app derives matches.
type MatchResolver struct {
	ledger   *Ledger
	store    Store
	notifier MatchNotifier // optional
}

func newMatchResolver(ledger *Ledger, store Store, notifier MatchNotifier) *MatchResolver {
	return &MatchResolver{ledger: ledger, store: store, notifier: notifier}
}

// OnLike records actor's like on target and resolves mutuality.
//
// The like commits on its own before the match attempt, so a failed match
// insert never loses the like. Both members of a freshly mutual pair may run
// this concurrently; the canonical pair key in the store makes them collide
// on the same row, and the loser of that race gets ExistingMatch.
func (r *MatchResolver) OnLike(ctx context.Context, actorID, targetID int) (MatchOutcome, *Match, error) {
	stored, err := r.ledger.Record(ctx, actorID, targetID, DecisionLike)
	if err != nil {
		return NoMatch, nil, err
	}
	if stored != DecisionLike {
		// An earlier dislike stands; without a like row in this direction
		// there is no mutual pair to resolve.
		return NoMatch, nil, nil
	}

	theyLikedUs, err := r.store.HasLike(ctx, targetID, actorID)
	if err != nil {
		return NoMatch, nil, err
	}
	if !theyLikedUs {
		return NoMatch, nil, nil
	}

	m, created, err := r.store.CreateMatch(ctx, actorID, targetID)
	if err != nil {
		return NoMatch, nil, err
	}
	if !created {
		return ExistingMatch, &m, nil
	}

	if r.notifier != nil {
		r.notifier.NotifyNewMatch(m.ID, m.UserLo, m.UserHi)
	}
	return NewMatch, &m, nil
}

// OnDislike records actor's dislike on target. Dislikes never produce a
// match, so there is no mutuality check.
func (r *MatchResolver) OnDislike(ctx context.Context, actorID, targetID int) error {
	_, err := r.ledger.Record(ctx, actorID, targetID, DecisionDislike)
	return err
}
