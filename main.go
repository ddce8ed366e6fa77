package main

import (
	"log"
	"net/http"
	"os"
)

// JWT secret from environment variable or fallback
func getJWTSecret() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("your_secret_key_please_change_in_production")
}

var jwtSecret = getJWTSecret()

func main() {
	initDB()

	store := newPGStore(db)
	hub := newHub()
	ledger := newLedger(store)
	resolver := newMatchResolver(ledger, store, hub)

	mux := http.NewServeMux()

	// Auth & profile endpoints
	mux.Handle("/signup", signupHandler(store))
	mux.Handle("/login", loginHandler(store))
	mux.Handle("/me", meHandler(store))
	mux.Handle("/me/profile", meProfileHandler(store))

	// Ping: mark this user as online "now"
	mux.Handle("/me/ping", mePingHandler(store)) // POST

	// Swipe & match core
	mux.Handle("/swipe-right/", swipeRightHandler(resolver, store)) // POST /swipe-right/{id}
	mux.Handle("/swipe-left/", swipeLeftHandler(resolver, store))   // POST /swipe-left/{id}
	mux.Handle("/candidates", candidatesHandler(store, ledger))     // GET
	mux.Handle("/matches", matchesHandler(store))                   // GET

	// Messaging between matched users
	mux.Handle("/messages/send", sendMessageHandler(store, hub))      // POST
	mux.Handle("/messages/conversation/", conversationHandler(store)) // GET /messages/conversation/{id}

	// WebSocket notification channel (new matches + incoming messages)
	mux.Handle("/ws", wsHandler(hub))

	// Health check endpoint for Docker
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Default().Println("Starting SparkMatch backend on port " + port + "...")
	http.ListenAndServe(":"+port, withCORS(mux))
}
