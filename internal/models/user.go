package models

import (
	"time"
)

// User represents a registered account used for display-name resolution
type User struct {
	// ID is the unique identifier for the user
	ID string `json:"id"`

	// Username is the unique display name chosen at registration
	Username string `json:"username"`

	// CreatedAt is when the user registered
	CreatedAt time.Time `json:"createdAt"`
}
