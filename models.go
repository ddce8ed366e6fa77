package main

import "time"

// Gender values accepted on profiles.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Gender preference values. "both" matches any gender.
const (
	PrefMale   = "male"
	PrefFemale = "female"
	PrefBoth   = "both"
)

// Swipe decisions.
const (
	DecisionLike    = "like"
	DecisionDislike = "dislike"
)

func validGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

func validPreference(p string) bool {
	return p == PrefMale || p == PrefFemale || p == PrefBoth
}

// Profile is the public user record used for matching and the candidate feed.
type Profile struct {
	UserID           int       `json:"id"`
	Name             string    `json:"name"`
	Bio              string    `json:"bio,omitempty"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	GenderPreference string    `json:"gender_preference"`
	ImageURL         string    `json:"image_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProfileUpdate carries the mutable profile fields. An empty ImageURL keeps
// the stored value; all other fields are written as given.
type ProfileUpdate struct {
	Name             string
	Bio              string
	Age              int
	Gender           string
	GenderPreference string
	ImageURL         string
}

// Swipe is one recorded decision by actor about target. Swipes are immutable:
// the first decision for an (actor, target) pair wins.
type Swipe struct {
	ActorID   int       `json:"actor_id"`
	TargetID  int       `json:"target_id"`
	Decision  string    `json:"decision"`
	CreatedAt time.Time `json:"created_at"`
}

// Match is the canonical record for a mutual like. UserLo < UserHi always,
// so the (UserLo, UserHi) pair key is independent of who swiped last.
type Match struct {
	ID        string    `json:"id"`
	UserLo    int       `json:"user_lo"`
	UserHi    int       `json:"user_hi"`
	CreatedAt time.Time `json:"created_at"`
}

// PeerID returns the other member of the match.
func (m Match) PeerID(userID int) int {
	if m.UserLo == userID {
		return m.UserHi
	}
	return m.UserLo
}

// Message is a stored chat message between two matched users.
type Message struct {
	ID          int64     `json:"id"`
	SenderID    int       `json:"sender_id"`
	RecipientID int       `json:"recipient_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	IsRead      bool      `json:"is_read"`
}
