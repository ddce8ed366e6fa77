package main

import "net/http"

// POST /me/ping
// Presence heartbeat: mark this user as online "now". The online window is
// 90 seconds (see Store.IsOnlineNow).
func mePingHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me := r.Context().Value(userIDKey).(int)
		_ = store.Ping(r.Context(), me)
		w.WriteHeader(http.StatusNoContent)
	})
}
