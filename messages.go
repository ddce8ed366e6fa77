package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// POST /messages/send
// Stores a message to a matched peer and pushes it over the notification
// channel. Messaging an unmatched user is rejected.
func sendMessageHandler(store Store, hub *Hub) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me := r.Context().Value(userIDKey).(int)

		type SendRequest struct {
			ReceiverID int    `json:"receiver_id"`
			Content    string `json:"content"`
		}

		var req SendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		req.Content = strings.TrimSpace(req.Content)
		if req.ReceiverID == 0 || req.Content == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}
		if req.ReceiverID == me {
			writeError(w, http.StatusBadRequest, "invalid_target")
			return
		}

		msg, err := store.SaveMessage(r.Context(), me, req.ReceiverID, req.Content)
		if err == ErrNotFound {
			// No match between the two users
			writeError(w, http.StatusForbidden, "not_matched")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("sendMessageHandler error:", err)
			return
		}

		if hub != nil {
			hub.NotifyMessage(msg)
		}
		writeJSON(w, http.StatusCreated, map[string]Message{"message": msg})
	})
}

// GET /messages/conversation/{userId}?limit=50
// History with a matched peer, oldest first. Fetching marks the peer's
// messages as read.
func conversationHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me := r.Context().Value(userIDKey).(int)

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "messages" || parts[1] != "conversation" {
			http.NotFound(w, r)
			return
		}
		peerID, err := strconv.Atoi(parts[2])
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		matched, err := store.Matched(r.Context(), me, peerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("conversationHandler match check error:", err)
			return
		}
		if !matched {
			writeError(w, http.StatusForbidden, "not_matched")
			return
		}

		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}

		msgs, err := store.Conversation(r.Context(), me, peerID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("conversationHandler error:", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string][]Message{"messages": msgs})
	})
}
