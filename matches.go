package main

import (
	"log"
	"net/http"
	"time"
)

// MatchSummary is one entry of the GET /matches listing: the peer's profile
// plus match metadata and their current presence.
type MatchSummary struct {
	MatchID   string    `json:"match_id"`
	MatchedAt time.Time `json:"matched_at"`
	Profile   Profile   `json:"profile"`
	Online    bool      `json:"online"`
}

// GET /matches
// Lists the caller's matches, most recent first, with the matched peer's
// profile resolved.
func matchesHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me := r.Context().Value(userIDKey).(int)

		matches, err := store.MatchesOf(r.Context(), me)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("matchesHandler error:", err)
			return
		}

		summaries := make([]MatchSummary, 0, len(matches))
		for _, m := range matches {
			peerID := m.PeerID(me)
			profile, err := store.GetProfile(r.Context(), peerID)
			if err != nil {
				// Peer profile gone (account deletion is a collaborator
				// concern); skip rather than fail the whole listing.
				continue
			}
			online, err := store.IsOnlineNow(r.Context(), peerID)
			if err != nil {
				online = false
			}
			summaries = append(summaries, MatchSummary{
				MatchID:   m.ID,
				MatchedAt: m.CreatedAt,
				Profile:   profile,
				Online:    online,
			})
		}

		writeJSON(w, http.StatusOK, map[string][]MatchSummary{"matches": summaries})
	})
}
