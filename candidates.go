package main

import (
	"log"
	"net/http"
)

// GET /candidates
// Returns the viewer's swipeable profiles: never themselves, never anyone
// they already judged, only mutually eligible candidates.
func candidatesHandler(store Store, ledger *Ledger) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me := r.Context().Value(userIDKey).(int)

		viewer, err := store.GetProfile(r.Context(), me)
		if err == ErrNotFound {
			writeError(w, http.StatusNotFound, "profile_not_found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("candidatesHandler profile error:", err)
			return
		}

		feed, err := buildFeed(r.Context(), store, ledger, viewer)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("candidatesHandler feed error:", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string][]Profile{"users": feed})
	})
}
