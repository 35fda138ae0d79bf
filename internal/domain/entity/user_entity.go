package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Email is unique across all users; the store enforces it as well.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
