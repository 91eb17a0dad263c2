package models

import "time"

// Todo is a single task owned by exactly one user.
// The UserId JSON casing is part of the API contract consumed by the page
// script; clients match on it, so it stays as-is.
type Todo struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Complete  bool      `json:"complete" db:"complete"`
	Priority  int       `json:"priority" db:"priority"`
	UserID    int       `json:"UserId" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateTodoRequest is the POST /api/todos body.
type CreateTodoRequest struct {
	Name string `json:"name"`
}

// UpdateTodoRequest is the PUT /api/todos/{id} body.
type UpdateTodoRequest struct {
	Name string `json:"name"`
}
