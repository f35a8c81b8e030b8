package models

import "strings"

// User is a snapshot of a chat participant's identity.
type User struct {
	ID           int64  `bson:"id" json:"id"`
	IsBot        bool   `bson:"is_bot,omitempty" json:"is_bot,omitempty"`
	FirstName    string `bson:"first_name" json:"first_name"`
	LastName     string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Username     string `bson:"username,omitempty" json:"username,omitempty"`
	LanguageCode string `bson:"language_code,omitempty" json:"language_code,omitempty"`
}

// DisplayName returns the best human readable name for the user.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "anonymous"
}

// Attendee is a user's membership record within one event.
type Attendee struct {
	User    `bson:",inline"`
	Donated bool `bson:"donated" json:"donated"`
}
