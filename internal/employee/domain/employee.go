package domain

import "time"

type Employee struct {
	ID           int64
	Name         string
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
