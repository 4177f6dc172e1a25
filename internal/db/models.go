package db

import "time"

// User is a row in the users table. Role is "driver" or "owner"; admins
// are seeded manually.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
