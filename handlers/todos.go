package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"todo-service/models"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
)

// TodoHandler handles the /api/todos route family. Every operation is
// scoped to the session user; a todo belonging to another user is reported
// as not found, never as forbidden, so that ids held by other users stay
// invisible.
type TodoHandler struct {
	db       *sqlx.DB
	cache    cache.Cache
	sessions *Sessions
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(db *sqlx.DB, cache cache.Cache, sessions *Sessions) *TodoHandler {
	return &TodoHandler{
		db:       db,
		cache:    cache,
		sessions: sessions,
	}
}

const dbErrorMessage = "a database error occurred"

func todoListCacheKey(userID int) string {
	return "todos:list:" + strconv.Itoa(userID)
}

func todoCacheKey(userID, todoID int) string {
	return "todo:" + strconv.Itoa(userID) + ":" + strconv.Itoa(todoID)
}

// requireUser resolves the session user or writes the 401 response.
// The route table already gates these routes, but the handlers do not rely
// on that: identity is resolved per request from the cookie.
func (h *TodoHandler) requireUser(ctx context.Context, w http.ResponseWriter, r *http.Request) *SessionUser {
	user := h.sessions.CurrentUser(r)
	if user == nil {
		logRequest(ctx, "error", "Unauthenticated API request")
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}
	return user
}

// todoID parses the {id} path variable. A non-numeric id cannot match any
// row, so it is reported the same way as a missing one.
func (h *TodoHandler) todoID(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		logRequest(ctx, "info", "Non-numeric todo ID", zap.String("id", idStr))
		writeError(w, http.StatusNotFound, "no todo found with id "+idStr)
		return 0, false
	}
	return id, true
}

// getOwnedTodo fetches the todo with the given id if it belongs to userID.
func (h *TodoHandler) getOwnedTodo(userID, id int) (*models.Todo, error) {
	var todo models.Todo
	err := h.db.QueryRow(
		"SELECT id, name, complete, priority, user_id, created_at, updated_at FROM todos WHERE id = ? AND user_id = ?",
		id, userID).
		Scan(&todo.ID, &todo.Name, &todo.Complete, &todo.Priority, &todo.UserID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// invalidate clears the cached responses touched by a mutation.
func (h *TodoHandler) invalidate(userID, todoID int) {
	h.cache.Delete(todoListCacheKey(userID))
	h.cache.Delete(todoCacheKey(userID, todoID))
}

// ListTodos handles GET /api/todos - list the session user's todos,
// ordered by ascending id
func (h *TodoHandler) ListTodos(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(ctx, w, r)
	if user == nil {
		return
	}

	logRequest(ctx, "info", "Listing todos", zap.Int("user_id", user.ID))

	// Try cache first
	cacheKey := todoListCacheKey(user.ID)
	if cached, err := h.cache.Get(cacheKey); err == nil {
		if body, ok := cached.([]byte); ok {
			logRequest(ctx, "debug", "Serving todos from cache", zap.Int("user_id", user.ID))
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	rows, err := h.db.Query(
		"SELECT id, name, complete, priority, user_id, created_at, updated_at FROM todos WHERE user_id = ? ORDER BY id ASC",
		user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to query todos", zap.Error(err))
		writeError(w, http.StatusInternalServerError, dbErrorMessage)
		return
	}
	defer rows.Close()

	// Empty list must encode as [] rather than null
	todos := []models.Todo{}
	for rows.Next() {
		var todo models.Todo
		err := rows.Scan(&todo.ID, &todo.Name, &todo.Complete, &todo.Priority, &todo.UserID, &todo.CreatedAt, &todo.UpdatedAt)
		if err != nil {
			logRequest(ctx, "error", "Failed to scan todo", zap.Error(err))
			continue
		}
		todos = append(todos, todo)
	}

	// Cache the result
	response, _ := json.Marshal(todos)
	h.cache.Set(cacheKey, response, 5*time.Minute)

	logRequest(ctx, "info", "Todos retrieved successfully", zap.Int("user_id", user.ID), zap.Int("count", len(todos)))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// GetTodo handles GET /api/todos/{id} - get one owned todo
func (h *TodoHandler) GetTodo(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(ctx, w, r)
	if user == nil {
		return
	}
	id, ok := h.todoID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Getting todo", zap.Int("user_id", user.ID), zap.Int("todo_id", id))

	// Try cache first
	cacheKey := todoCacheKey(user.ID, id)
	if cached, err := h.cache.Get(cacheKey); err == nil {
		if body, ok := cached.([]byte); ok {
			logRequest(ctx, "debug", "Serving todo from cache", zap.Int("todo_id", id))
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	todo, err := h.getOwnedTodo(user.ID, id)
	if err == sql.ErrNoRows {
		logRequest(ctx, "info", "Todo not found", zap.Int("todo_id", id))
		writeError(w, http.StatusNotFound, "no todo found with id "+strconv.Itoa(id))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query todo", zap.Error(err), zap.Int("todo_id", id))
		writeError(w, http.StatusInternalServerError, dbErrorMessage)
		return
	}

	// Cache the result
	response, _ := json.Marshal(todo)
	h.cache.Set(cacheKey, response, 10*time.Minute)

	logRequest(ctx, "info", "Todo retrieved successfully", zap.Int("todo_id", id))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// CreateTodo handles POST /api/todos - create a todo owned by the session
// user, with complete=false and priority=0
func (h *TodoHandler) CreateTodo(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(ctx, w, r)
	if user == nil {
		return
	}

	var req models.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "provide todo text")
		return
	}
	if req.Name == "" {
		logRequest(ctx, "error", "Missing todo text")
		writeError(w, http.StatusBadRequest, "provide todo text")
		return
	}

	logRequest(ctx, "info", "Creating todo", zap.Int("user_id", user.ID), zap.String("name", req.Name))

	now := time.Now()
	result, err := h.db.Exec(
		"INSERT INTO todos (name, complete, priority, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		req.Name, false, 0, user.ID, now, now)
	if err != nil {
		logRequest(ctx, "error", "Failed to create todo", zap.Error(err))
		writeError(w, http.StatusInternalServerError, dbErrorMessage)
		return
	}

	id, _ := result.LastInsertId()
	todo := models.Todo{
		ID:        int(id),
		Name:      req.Name,
		Complete:  false,
		Priority:  0,
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	h.cache.Delete(todoListCacheKey(user.ID))

	logRequest(ctx, "info", "Todo created successfully", zap.Int("todo_id", todo.ID))

	writeJSON(w, http.StatusOK, todo)
}

// UpdateTodo handles PUT /api/todos/{id} - replace the text of an owned todo
func (h *TodoHandler) UpdateTodo(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(ctx, w, r)
	if user == nil {
		return
	}
	id, ok := h.todoID(ctx, w, r)
	if !ok {
		return
	}

	// Validate before touching the store
	var req models.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "provide todo text")
		return
	}
	if req.Name == "" {
		logRequest(ctx, "error", "Missing todo text", zap.Int("todo_id", id))
		writeError(w, http.StatusBadRequest, "provide todo text")
		return
	}

	logRequest(ctx, "info", "Updating todo", zap.Int("user_id", user.ID), zap.Int("todo_id", id))

	todo, err := h.getOwnedTodo(user.ID, id)
	if err == sql.ErrNoRows {
		logRequest(ctx, "info", "Todo not found for update", zap.Int("todo_id", id))
		writeError(w, http.StatusNotFound, "no todo found with id "+strconv.Itoa(id))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query todo", zap.Error(err), zap.Int("todo_id", id))
		writeError(w, http.StatusInternalServerError, dbErrorMessage)
		return
	}

	now := time.Now()
	_, err = h.db.Exec("UPDATE todos SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		req.Name, now, id, user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to update todo", zap.Error(err), zap.Int("todo_id", id))
		writeError(w, http.StatusInternalServerError, dbErrorMessage)
		return
	}

	todo.Name = req.Name
	todo.UpdatedAt = now
	h.invalidate(user.ID, id)

	logRequest(ctx, "info", "Todo updated successfully", zap.Int("todo_id", id))

	writeJSON(w, http.StatusOK, todo)
}

// ToggleTodo handles PUT /api/todos/mark/{id} - flip the complete flag on
// an owned todo
func (h *TodoHandler) ToggleTodo(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(ctx, w, r)
	if user == nil {
		return
	}
	id, ok := h.todoID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Toggling todo", zap.Int("user_id", user.ID), zap.Int("todo_id", id))

	todo, err := h.getOwnedTodo(user.ID, id)
	if err == sql.ErrNoRows {
		logRequest(ctx, "info", "Todo not found for toggle", zap.Int("todo_id", id))
		writeError(w, http.StatusNotFound, "no todo found with id "+strconv.Itoa(id))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query todo", zap.Error(err), zap.Int("todo_id", id))
		writeError(w, http.StatusInternalServerError, dbErrorMessage)
		return
	}

	now := time.Now()
	_, err = h.db.Exec("UPDATE todos SET complete = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		!todo.Complete, now, id, user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to toggle todo", zap.Error(err), zap.Int("todo_id", id))
		writeError(w, http.StatusInternalServerError, dbErrorMessage)
		return
	}

	todo.Complete = !todo.Complete
	todo.UpdatedAt = now
	h.invalidate(user.ID, id)

	logRequest(ctx, "info", "Todo toggled successfully", zap.Int("todo_id", id), zap.Bool("complete", todo.Complete))

	writeJSON(w, http.StatusOK, todo)
}

// DeleteTodo handles DELETE /api/todos/{id} - remove an owned todo
func (h *TodoHandler) DeleteTodo(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(ctx, w, r)
	if user == nil {
		return
	}
	id, ok := h.todoID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Deleting todo", zap.Int("user_id", user.ID), zap.Int("todo_id", id))

	result, err := h.db.Exec("DELETE FROM todos WHERE id = ? AND user_id = ?", id, user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to delete todo", zap.Error(err), zap.Int("todo_id", id))
		writeError(w, http.StatusInternalServerError, dbErrorMessage)
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		logRequest(ctx, "info", "Todo not found for deletion", zap.Int("todo_id", id))
		writeError(w, http.StatusNotFound, "no todo found with id "+strconv.Itoa(id))
		return
	}

	h.invalidate(user.ID, id)

	logRequest(ctx, "info", "Todo deleted successfully", zap.Int("todo_id", id))

	w.WriteHeader(http.StatusNoContent)
}
