package models

import "time"

// User represents a registered account.
// Password holds the bcrypt hash; never returned in JSON responses.
type User struct {
	ID        int       `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Hashed; omitted from JSON
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Credentials are the register/login form fields.
// Both pages post application/x-www-form-urlencoded bodies.
type Credentials struct {
	Email    string
	Password string
}
