package domain

import "time"

// Todo is a single task owned by one user.
// Не зависит от Gin, Postgres, Redis.
type Todo struct {
	ID        string
	UserID    string
	Title     string
	Completed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoPage is one page of a user's todos, newest first.
type TodoPage struct {
	Todos       []Todo
	TotalPages  int
	CurrentPage int
}
