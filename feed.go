package main

import "context"

// buildFeed returns the profiles viewer can still swipe on: everyone except
// the viewer themselves, profiles they have already judged (either decision),
// and profiles that are not mutually preference-eligible.
//
// The result order follows ListProfiles (creation time ascending, id as
// tie-break), so repeated calls are deterministic. The builder is a pure
// filter over a snapshot read; it holds no state of its own.
func buildFeed(ctx context.Context, store Store, ledger *Ledger, viewer Profile) ([]Profile, error) {
	decided, err := ledger.DecisionsBy(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	all, err := store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	feed := make([]Profile, 0, len(all))
	for _, candidate := range all {
		if candidate.UserID == viewer.UserID {
			continue
		}
		if _, judged := decided[candidate.UserID]; judged {
			continue
		}
		if !mutuallyEligible(viewer, candidate) {
			continue
		}
		feed = append(feed, candidate)
	}
	return feed, nil
}
