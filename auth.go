package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserIDKey is the key type for storing user ID in context
type UserIDKey string

const userIDKey UserIDKey = "userID"

func issueToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"expires": time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// POST /signup
// Creates the credential row and the profile in one shot, then logs the new
// user straight in.
func signupHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		type SignupRequest struct {
			Name             string `json:"name"`
			Email            string `json:"email"`
			Password         string `json:"password"`
			Age              int    `json:"age"`
			Gender           string `json:"gender"`
			GenderPreference string `json:"gender_preference"`
		}

		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		req.Password = strings.TrimSpace(req.Password)
		if req.Name == "" || req.Email == "" || req.Password == "" || req.Age == 0 ||
			req.Gender == "" || req.GenderPreference == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}
		if req.Age < 18 {
			writeError(w, http.StatusBadRequest, "underage")
			return
		}
		if !validGender(req.Gender) {
			writeError(w, http.StatusBadRequest, "invalid_gender")
			return
		}
		if !validPreference(req.GenderPreference) {
			writeError(w, http.StatusBadRequest, "invalid_gender_preference")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "hash_error")
			log.Println("Error hashing password:", err)
			return
		}

		newID, err := store.CreateUser(r.Context(), req.Email, string(hashedPassword), Profile{
			Name:             req.Name,
			Age:              req.Age,
			Gender:           req.Gender,
			GenderPreference: req.GenderPreference,
		})
		if err == ErrEmailTaken {
			writeError(w, http.StatusConflict, "email_exists")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "signup_error")
			log.Println("Error saving user to database:", err)
			return
		}

		tokenString, err := issueToken(newID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token_generation_error")
			log.Println("Error generating token for new user:", err)
			return
		}

		profile, err := store.GetProfile(r.Context(), newID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("Error fetching new profile:", err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{"token": tokenString, "user": profile})
	}
}

// POST /login
func loginHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		type LoginRequest struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		req.Password = strings.TrimSpace(req.Password)
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}

		userID, passwordHash, err := store.Credentials(r.Context(), req.Email)
		if err == ErrNotFound {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		} else if err != nil {
			log.Println("Error querying user:", err)
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}

		// Update last_online; don't fail login over it
		if err := store.Ping(r.Context(), userID); err != nil {
			log.Println("Failed to update last_online:", err)
		}

		tokenString, err := issueToken(userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token_generation_error")
			log.Println("Error generating token:", err)
			return
		}

		profile, err := store.GetProfile(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"token": tokenString, "user": profile})
	}
}

// authenticate resolves the caller's identity from the bearer token and puts
// the user id into the request context. It rejects before any storage is
// touched.
func authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := getUserIDFromBearer(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// Extract user ID from Authorization header using the shared jwtSecret.
// Mirrors authenticate(), but returns (id, ok) instead of wrapping a handler.
func getUserIDFromBearer(r *http.Request) (int, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}
	return parseUserIDFromJWT(strings.TrimPrefix(auth, "Bearer "))
}

func getUserIDFromRequest(r *http.Request) (int, bool) {
	// Try Authorization header first
	if id, ok := getUserIDFromBearer(r); ok {
		return id, true
	}
	// Fallback: token query param for WS (browsers can't set headers)
	if q := r.URL.Query().Get("token"); q != "" {
		return parseUserIDFromJWT(q)
	}
	return 0, false
}

func parseUserIDFromJWT(tokenStr string) (int, bool) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	// jwt.MapClaims stores numbers as float64 by default
	fv, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return int(fv), true
}
