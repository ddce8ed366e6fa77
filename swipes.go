package main

import (
	"log"
	"net/http"
	"strconv"
	"strings"
)

// swipeTarget parses and validates the target id from /swipe-right/{id} or
// /swipe-left/{id}. Writes the error response itself on failure.
func swipeTarget(w http.ResponseWriter, r *http.Request, action string, store Store, me int) (int, bool) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 || parts[0] != action {
		http.NotFound(w, r)
		return 0, false
	}
	targetID, err := strconv.Atoi(parts[1])
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return 0, false
	}
	if targetID == me {
		writeError(w, http.StatusBadRequest, "invalid_target")
		return 0, false
	}
	// Ensure target exists before recording anything about them.
	if _, err := store.GetProfile(r.Context(), targetID); err != nil {
		if err == ErrNotFound {
			writeError(w, http.StatusNotFound, "not_found")
		} else {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("swipe target lookup error:", err)
		}
		return 0, false
	}
	return targetID, true
}

// POST /swipe-right/{id}
// Records a like and reports whether it completed a match. Re-swiping the
// same profile is an idempotent no-op, and a race-duplicate match creation
// comes back as a normal success.
func swipeRightHandler(resolver *MatchResolver, store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me := r.Context().Value(userIDKey).(int)

		targetID, ok := swipeTarget(w, r, "swipe-right", store, me)
		if !ok {
			return
		}

		outcome, match, err := resolver.OnLike(r.Context(), me, targetID)
		if err == ErrSelfSwipe {
			writeError(w, http.StatusBadRequest, "invalid_target")
			return
		}
		if err == ErrAlreadyDecided {
			writeError(w, http.StatusConflict, "already_decided")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("swipeRightHandler error:", err)
			return
		}

		resp := map[string]interface{}{
			"success":  true,
			"is_match": outcome != NoMatch,
			"outcome":  outcome.String(),
		}
		if match != nil {
			resp["match_id"] = match.ID
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// POST /swipe-left/{id}
func swipeLeftHandler(resolver *MatchResolver, store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me := r.Context().Value(userIDKey).(int)

		targetID, ok := swipeTarget(w, r, "swipe-left", store, me)
		if !ok {
			return
		}

		err := resolver.OnDislike(r.Context(), me, targetID)
		if err == ErrSelfSwipe {
			writeError(w, http.StatusBadRequest, "invalid_target")
			return
		}
		if err == ErrAlreadyDecided {
			writeError(w, http.StatusConflict, "already_decided")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("swipeLeftHandler error:", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	})
}
