package sessions

import "time"

// Session is one refresh-token grant for a signed-in user. Access tokens are
// short-lived and stateless; the session is what lets a client mint a new one
// without walking through the sign-in link again.
type Session struct {
	RefreshToken string    `bson:"refresh_token" json:"refresh_token"`
	Sub          string    `bson:"sub" json:"sub"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Expired reports whether the session's lifetime has passed.
func (s *Session) Expired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}
