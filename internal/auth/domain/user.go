package domain

import "time"

type User struct {
	ID             string
	Email          string
	PasswordHash   string // argon2id, PHC encoded
	AccessLevel    int
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
