package database

import "time"

// To-do item status values. Any other value is rejected before persistence.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// TodoItem represents one to-do list entry owned by a single LINE user.
// The (user_id, title) pair acts as the item's logical key: creation is
// rejected when the same title already exists for the user.
type TodoItem struct {
	ID        uint      `db:"id"`
	Title     string    `db:"title"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	Status    string    `db:"status"`
}

// ValidStatus reports whether s is one of the two permitted status values.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted
}
