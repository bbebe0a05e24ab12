package models

import "time"

type User struct {
	ID           int64     `json:"id" example:"1"`
	Username     string    `json:"username" example:"boris"`
	FullName     string    `json:"full_name" example:"Boris Johnsoniuk"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
