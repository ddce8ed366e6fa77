package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func itoa(n int) string { return strconv.Itoa(n) }

// All tests share the same secret so tokens issued by one helper validate
// everywhere.
func init() {
	jwtSecret = []byte("test-secret-key-for-testing")
}

// TestUser bundles what the HTTP helpers need to act as a user.
type TestUser struct {
	ID    int
	Email string
	Token string
}

// testEnv wires a full app core around the in-memory store.
type testEnv struct {
	store    *memStore
	hub      *Hub
	ledger   *Ledger
	resolver *MatchResolver
}

func newTestEnv() *testEnv {
	store := newMemStore()
	hub := newHub()
	ledger := newLedger(store)
	return &testEnv{
		store:    store,
		hub:      hub,
		ledger:   ledger,
		resolver: newMatchResolver(ledger, store, hub),
	}
}

// signupTestUser creates a user through the real signup handler and returns
// the issued token.
func (env *testEnv) signupTestUser(t *testing.T, email, gender, preference string) TestUser {
	t.Helper()

	payload := map[string]interface{}{
		"name":              "Test " + email,
		"email":             email,
		"password":          "password123",
		"age":               25,
		"gender":            gender,
		"gender_preference": preference,
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	signupHandler(env.store).ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to sign up test user %s: %d - %s", email, w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID int `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid signup response: %v", err)
	}

	return TestUser{ID: resp.User.ID, Email: email, Token: resp.Token}
}

// doJSON runs one authenticated request against a handler and decodes the
// JSON body into out (when out is non-nil).
func doJSON(t *testing.T, h http.Handler, method, path, token string, payload, out interface{}) int {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("invalid JSON response for %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w.Code
}
