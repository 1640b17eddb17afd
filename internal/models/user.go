package models

import "time"

// User represents an application user. Users signing in through the
// one-time-link flow get a locally generated subject; OIDC users carry
// the provider subject. Sub is the owner identity on every stored record.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Sub       string    `bson:"sub" json:"sub"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
