// Package todo implements the to-do list manager: the only component with
// persisted, user-scoped state. It owns all reads and writes of to-do items
// and renders every outcome as user-facing reply text.
package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ycshao/lineassist/internal/database"
)

// Sub-command keywords nested inside the top-level todo command.
const (
	subCreate = "新增"
	subDelete = "刪除"
	subUpdate = "修改"
	subList   = "列表"
)

// deleteAllKeyword deletes every item the user owns instead of one title.
const deleteAllKeyword = "全部"

const subcommandUsage = "說明: 待辦事項管理\n" +
	"子指令\n" +
	"列表: 查看所有待辦事項\n" +
	"新增: 新增待辦事項 (todo 新增 [事項名稱])\n" +
	"刪除: 刪除待辦事項 (todo 刪除 [事項名稱])\n" +
	"修改: 更改待辦狀態 (todo 修改 [事項名稱] completed/pending)\n"

// Manager handles the todo sub-commands against the persistent store.
type Manager struct {
	store database.Store
	log   *slog.Logger
}

// NewManager creates a to-do list manager backed by the given store.
func NewManager(store database.Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store: store,
		log:   log.With("component", "todo"),
	}
}

// HandleCommand dispatches one todo message. parts is the whitespace-split
// message including the leading "todo" token; userID scopes every operation.
// Unknown sub-commands and missing arguments yield the usage text.
func (m *Manager) HandleCommand(ctx context.Context, parts []string, userID string) (string, error) {
	if len(parts) < 2 {
		return subcommandUsage, nil
	}

	sub := parts[1]
	known := sub == subCreate || sub == subDelete || sub == subUpdate || sub == subList
	if !known || (sub != subList && len(parts) < 3) {
		return subcommandUsage, nil
	}

	switch sub {
	case subCreate:
		return m.Create(ctx, parts[2], userID)
	case subDelete:
		return m.Delete(ctx, parts[2], userID)
	case subUpdate:
		if len(parts) < 4 {
			return "請輸入要修改的狀態 請使用completed 或是 pending", nil
		}
		return m.Update(ctx, parts[2], parts[3], userID)
	default:
		return m.List(ctx, userID)
	}
}

// Create adds a new pending item, rejecting duplicate titles for the user.
func (m *Manager) Create(ctx context.Context, title, userID string) (string, error) {
	existing, err := m.store.GetTodoByTitle(ctx, userID, title)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return fmt.Sprintf("%s已存在 無法重複新增", existing.Title), nil
	}

	item := &database.TodoItem{Title: title, UserID: userID}
	if err := m.store.CreateTodo(ctx, item); err != nil {
		// The unique index can still fire when two creates race past the
		// existence check; the user sees the same duplicate reply.
		if errors.Is(err, database.ErrDuplicateTitle) {
			return fmt.Sprintf("%s已存在 無法重複新增", title), nil
		}
		return "", err
	}

	m.log.InfoContext(ctx, "Todo item created", "user_id", userID, "title", title)
	return fmt.Sprintf("成功新增%s", item.Title), nil
}

// Delete removes one item by exact title, or every item the user owns when
// the title is the delete-all keyword.
func (m *Manager) Delete(ctx context.Context, title, userID string) (string, error) {
	if title == deleteAllKeyword {
		deleted, err := m.store.DeleteAllTodos(ctx, userID)
		if err != nil {
			return "", err
		}
		if deleted == 0 {
			return "當前代辦事項已經為空 不需要刪除!", nil
		}
		m.log.InfoContext(ctx, "All todo items deleted", "user_id", userID, "count", deleted)
		return "代辦事項已全部刪除", nil
	}

	deleted, err := m.store.DeleteTodoByTitle(ctx, userID, title)
	if err != nil {
		return "", err
	}
	if deleted == 0 {
		return "當前事項不存在", nil
	}

	m.log.InfoContext(ctx, "Todo item deleted", "user_id", userID, "title", title)
	return fmt.Sprintf("成功刪除%s", title), nil
}

// Update changes an item's status between pending and completed. An invalid
// status never touches stored state; setting the current status again is an
// explicit no-op reply.
func (m *Manager) Update(ctx context.Context, title, newStatus, userID string) (string, error) {
	if !database.ValidStatus(newStatus) {
		return "無效的狀態修改,請使用 completed 或是 pending", nil
	}

	item, err := m.store.GetTodoByTitle(ctx, userID, title)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "找不到該待辦事項", nil
	}
	if item.Status == newStatus {
		return fmt.Sprintf("%s已是%s狀態了", title, newStatus), nil
	}

	if _, err := m.store.UpdateTodoStatus(ctx, userID, title, newStatus); err != nil {
		return "", err
	}

	m.log.InfoContext(ctx, "Todo status updated", "user_id", userID, "title", title, "status", newStatus)
	return fmt.Sprintf("已成功把%s修改為 %s狀態了!", title, newStatus), nil
}

// List renders the user's items as a numbered list ordered by creation time.
func (m *Manager) List(ctx context.Context, userID string) (string, error) {
	items, err := m.store.ListTodos(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "目前沒有待辦事項", nil
	}

	var sb strings.Builder
	sb.WriteString("您的待辦清單如下\n")
	for i, item := range items {
		glyph := "⭕"
		if item.Status == database.StatusCompleted {
			glyph = "✅"
		}
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, glyph, item.Title)
	}
	return sb.String(), nil
}
