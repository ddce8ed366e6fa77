package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// GET /me
func meHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me := r.Context().Value(userIDKey).(int)

		profile, err := store.GetProfile(r.Context(), me)
		if err == ErrNotFound {
			writeError(w, http.StatusNotFound, "profile_not_found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("meHandler error:", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]Profile{"user": profile})
	})
}

// PUT /me/profile
// Updates the caller's own profile. Only the owning user can mutate their
// record; the image URL is kept when the request omits it.
func meProfileHandler(store Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		me := r.Context().Value(userIDKey).(int)

		type UpdateRequest struct {
			Name             string `json:"name"`
			Bio              string `json:"bio"`
			Age              int    `json:"age"`
			Gender           string `json:"gender"`
			GenderPreference string `json:"gender_preference"`
			ImageURL         string `json:"image_url"`
		}

		var req UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.Age == 0 || req.Gender == "" || req.GenderPreference == "" {
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

		profile, err := store.UpdateProfile(r.Context(), me, ProfileUpdate{
			Name:             req.Name,
			Bio:              req.Bio,
			Age:              req.Age,
			Gender:           req.Gender,
			GenderPreference: req.GenderPreference,
			ImageURL:         req.ImageURL,
		})
		if err == ErrNotFound {
			writeError(w, http.StatusNotFound, "profile_not_found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			log.Println("meProfileHandler error:", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]Profile{"user": profile})
	})
}
