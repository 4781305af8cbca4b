package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrDuplicateTitle is returned by CreateTodo when an item with the same
// title already exists for the user. The manager performs an existence check
// first, but the unique index can still fire under concurrent creates.
var ErrDuplicateTitle = errors.New("todo item with this title already exists for user")

// Store defines the interface for to-do item persistence.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// ListTodos retrieves all items for the user, ordered by creation time ascending.
	ListTodos(ctx context.Context, userID string) ([]TodoItem, error)

	// GetTodoByTitle retrieves a single item by exact title match.
	// Returns nil, nil if no such item exists.
	GetTodoByTitle(ctx context.Context, userID, title string) (*TodoItem, error)

	// CreateTodo inserts a new pending item. Returns ErrDuplicateTitle if an
	// item with the same title already exists for the user.
	CreateTodo(ctx context.Context, item *TodoItem) error

	// UpdateTodoStatus sets the status of the item matching (userID, title).
	// Returns the number of rows updated (0 when no item matched).
	UpdateTodoStatus(ctx context.Context, userID, title, status string) (int64, error)

	// DeleteTodoByTitle deletes the single item matching (userID, title).
	// Returns the number of rows deleted.
	DeleteTodoByTitle(ctx context.Context, userID, title string) (int64, error)

	// DeleteAllTodos deletes every item owned by the user.
	// Returns the number of rows deleted.
	DeleteAllTodos(ctx context.Context, userID string) (int64, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListTodos retrieves all items for the user, ordered by creation time ascending.
func (s *sqlxStore) ListTodos(ctx context.Context, userID string) ([]TodoItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var items []TodoItem
	query := `
        SELECT id, title, user_id, created_at, status
        FROM todo_items
        WHERE user_id = ?
        ORDER BY created_at ASC, id ASC;
    `

	err := s.db.SelectContext(ctx, &items, query, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing todo items", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list todo items for user %s: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Listed todo items", "user_id", userID, "count", len(items))
	return items, nil
}

// GetTodoByTitle retrieves a single item by exact title match. Returns nil, nil if not found.
func (s *sqlxStore) GetTodoByTitle(ctx context.Context, userID, title string) (*TodoItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var item TodoItem
	query := `SELECT id, title, user_id, created_at, status FROM todo_items WHERE user_id = ? AND title = ?`

	err := s.db.GetContext(ctx, &item, query, userID, title)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No todo item found", "user_id", userID, "title", title)
		return nil, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting todo item", "user_id", userID, "title", title, "error", err)
		return nil, fmt.Errorf("failed to get todo item %q for user %s: %w", title, userID, err)
	}

	return &item, nil
}

// CreateTodo inserts a new item. The status defaults to pending and the
// creation timestamp is set here; both are immutable afterwards.
func (s *sqlxStore) CreateTodo(ctx context.Context, item *TodoItem) error {
	if item == nil {
		return fmt.Errorf("cannot save nil todo item")
	}
	if item.Title == "" {
		return fmt.Errorf("todo item must have a non-empty title")
	}
	if item.UserID == "" {
		return fmt.Errorf("todo item must have a non-empty user_id")
	}

	if item.Status == "" {
		item.Status = StatusPending
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO todo_items (title, user_id, created_at, status)
        VALUES (:title, :user_id, :created_at, :status);
    `

	result, err := s.db.NamedExecContext(ctx, query, item)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.DebugContext(ctx, "Duplicate todo title rejected by unique index",
				"user_id", item.UserID, "title", item.Title)
			return ErrDuplicateTitle
		}
		s.logger.ErrorContext(ctx, "Error saving todo item",
			"user_id", item.UserID, "title", item.Title, "error", err)
		return fmt.Errorf("failed to save todo item %q for user %s: %w", item.Title, item.UserID, err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		item.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving todo item",
			"user_id", item.UserID, "title", item.Title, "error", err)
	}

	s.logger.DebugContext(ctx, "Todo item saved successfully",
		"user_id", item.UserID, "title", item.Title, "id", item.ID)
	return nil
}

// UpdateTodoStatus sets the status of the item matching (userID, title).
func (s *sqlxStore) UpdateTodoStatus(ctx context.Context, userID, title, status string) (int64, error) {
	if !ValidStatus(status) {
		return 0, fmt.Errorf("invalid todo status %q", status)
	}

	query := `UPDATE todo_items SET status = ? WHERE user_id = ? AND title = ?`
	result, err := s.db.ExecContext(ctx, query, status, userID, title)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating todo status",
			"user_id", userID, "title", title, "status", status, "error", err)
		return 0, fmt.Errorf("failed to update todo item %q for user %s: %w", title, userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count after status update",
			"user_id", userID, "title", title, "error", err)
		return 0, nil
	}

	s.logger.DebugContext(ctx, "Todo status updated",
		"user_id", userID, "title", title, "status", status, "affected", affected)
	return affected, nil
}

// DeleteTodoByTitle deletes the single item matching (userID, title).
func (s *sqlxStore) DeleteTodoByTitle(ctx context.Context, userID, title string) (int64, error) {
	query := `DELETE FROM todo_items WHERE user_id = ? AND title = ?`
	result, err := s.db.ExecContext(ctx, query, userID, title)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting todo item",
			"user_id", userID, "title", title, "error", err)
		return 0, fmt.Errorf("failed to delete todo item %q for user %s: %w", title, userID, err)
	}

	affected, _ := result.RowsAffected()
	s.logger.DebugContext(ctx, "Todo item deleted", "user_id", userID, "title", title, "affected", affected)
	return affected, nil
}

// DeleteAllTodos deletes every item owned by the user. Other users' items are untouched.
func (s *sqlxStore) DeleteAllTodos(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id cannot be empty")
	}

	query := `DELETE FROM todo_items WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting all todo items", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to delete todo items for user %s: %w", userID, err)
	}

	affected, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted all todo items for user", "user_id", userID, "count", affected)
	return affected, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
// modernc.org/sqlite does not export a stable error type for this, so the
// check matches the extended error message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
