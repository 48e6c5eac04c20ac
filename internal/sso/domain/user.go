package domain

import "time"

type User struct {
	Email        string // primary identifier, unique
	Name         string
	PasswordHash string // argon2id PHC encoded
	Admin        bool
	CreatedAt    time.Time
}
