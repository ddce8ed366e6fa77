package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type swipeResponse struct {
	Success bool   `json:"success"`
	IsMatch bool   `json:"is_match"`
	Outcome string `json:"outcome"`
	MatchID string `json:"match_id"`
}

func TestSwipeRightHandler(t *testing.T) {
	env := newTestEnv()
	handler := swipeRightHandler(env.resolver, env.store)

	userA := env.signupTestUser(t, "swipe_a@example.com", GenderFemale, PrefBoth)
	userB := env.signupTestUser(t, "swipe_b@example.com", GenderMale, PrefFemale)

	t.Run("first like is no match", func(t *testing.T) {
		var resp swipeResponse
		code := doJSON(t, handler, http.MethodPost, "/swipe-right/"+itoa(userB.ID), userA.Token, nil, &resp)
		require.Equal(t, http.StatusOK, code)
		assert.True(t, resp.Success)
		assert.False(t, resp.IsMatch)
		assert.Equal(t, "no_match", resp.Outcome)
		assert.Empty(t, resp.MatchID)
	})

	t.Run("reciprocal like completes the match", func(t *testing.T) {
		var resp swipeResponse
		code := doJSON(t, handler, http.MethodPost, "/swipe-right/"+itoa(userA.ID), userB.Token, nil, &resp)
		require.Equal(t, http.StatusOK, code)
		assert.True(t, resp.IsMatch)
		assert.Equal(t, "new_match", resp.Outcome)
		assert.NotEmpty(t, resp.MatchID)
	})

	t.Run("re-swipe after match is idempotent success", func(t *testing.T) {
		var resp swipeResponse
		code := doJSON(t, handler, http.MethodPost, "/swipe-right/"+itoa(userB.ID), userA.Token, nil, &resp)
		require.Equal(t, http.StatusOK, code)
		assert.True(t, resp.IsMatch)
		assert.Equal(t, "existing_match", resp.Outcome)
		assert.Equal(t, 1, env.store.matchCount())
	})

	t.Run("swiping yourself is invalid", func(t *testing.T) {
		code := doJSON(t, handler, http.MethodPost, "/swipe-right/"+itoa(userA.ID), userA.Token, nil, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("unknown target is 404", func(t *testing.T) {
		code := doJSON(t, handler, http.MethodPost, "/swipe-right/99999", userA.Token, nil, nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("non-numeric target is 404", func(t *testing.T) {
		code := doJSON(t, handler, http.MethodPost, "/swipe-right/abc", userA.Token, nil, nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("unauthenticated is 401", func(t *testing.T) {
		code := doJSON(t, handler, http.MethodPost, "/swipe-right/"+itoa(userB.ID), "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		code := doJSON(t, handler, http.MethodGet, "/swipe-right/"+itoa(userB.ID), userA.Token, nil, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, code)
	})
}

func TestSwipeLeftHandler(t *testing.T) {
	env := newTestEnv()
	left := swipeLeftHandler(env.resolver, env.store)
	right := swipeRightHandler(env.resolver, env.store)

	userA := env.signupTestUser(t, "left_a@example.com", GenderMale, PrefBoth)
	userB := env.signupTestUser(t, "left_b@example.com", GenderFemale, PrefBoth)

	t.Run("dislike succeeds and never matches", func(t *testing.T) {
		// B likes A first; A's dislike still must not create a match.
		code := doJSON(t, right, http.MethodPost, "/swipe-right/"+itoa(userA.ID), userB.Token, nil, nil)
		require.Equal(t, http.StatusOK, code)

		var resp swipeResponse
		code = doJSON(t, left, http.MethodPost, "/swipe-left/"+itoa(userB.ID), userA.Token, nil, &resp)
		require.Equal(t, http.StatusOK, code)
		assert.True(t, resp.Success)
		assert.Equal(t, 0, env.store.matchCount())
	})

	t.Run("repeat dislike is a silent no-op", func(t *testing.T) {
		code := doJSON(t, left, http.MethodPost, "/swipe-left/"+itoa(userB.ID), userA.Token, nil, nil)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("self dislike is invalid", func(t *testing.T) {
		code := doJSON(t, left, http.MethodPost, "/swipe-left/"+itoa(userA.ID), userA.Token, nil, nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
