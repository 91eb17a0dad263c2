package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"todo-service/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles the browser-facing register/login/logout flow and the
// home page. Unlike the API family these routes speak HTML: failures
// re-render the form with an inline error and successes redirect.
type AuthHandler struct {
	db       *sqlx.DB
	sessions *Sessions
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *sqlx.DB, sessions *Sessions) *AuthHandler {
	return &AuthHandler{
		db:       db,
		sessions: sessions,
	}
}

func formCredentials(r *http.Request) models.Credentials {
	return models.Credentials{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	renderRegisterPage(w, "")
}

// Register handles POST /register - hash the password, create the user,
// redirect to the login page
func (h *AuthHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	creds := formCredentials(r)
	if creds.Email == "" || creds.Password == "" {
		renderRegisterPage(w, "email and password are required")
		return
	}

	logRequest(ctx, "info", "Registering user", zap.String("email", creds.Email))

	// Cost 12 for security
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(creds.Password), 12)
	if err != nil {
		logRequest(ctx, "error", "Password hashing failed", zap.Error(err))
		renderRegisterPage(w, "could not process password")
		return
	}

	_, err = h.db.Exec("INSERT INTO users (email, password, created_at, updated_at) VALUES (?, ?, ?, ?)",
		creds.Email, string(hashedPassword), time.Now(), time.Now())
	if err != nil {
		// The email column carries a UNIQUE constraint; a violation is a
		// user error, not a server fault.
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			logRequest(ctx, "info", "Duplicate registration", zap.String("email", creds.Email))
			renderRegisterPage(w, "an account with that email already exists")
			return
		}
		logRequest(ctx, "error", "Failed to create user", zap.Error(err))
		renderRegisterPage(w, dbErrorMessage)
		return
	}

	logRequest(ctx, "info", "User registered successfully", zap.String("email", creds.Email))

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	renderLoginPage(w, "")
}

// Login handles POST /login - verify credentials, create the session,
// redirect home
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	creds := formCredentials(r)
	if creds.Email == "" || creds.Password == "" {
		renderLoginPage(w, "email and password are required")
		return
	}

	logRequest(ctx, "info", "Login attempt", zap.String("email", creds.Email))

	var user models.User
	err := h.db.QueryRow("SELECT id, email, password, created_at, updated_at FROM users WHERE email = ?", creds.Email).
		Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		logRequest(ctx, "info", "Unknown login email", zap.String("email", creds.Email))
		renderLoginPage(w, "no user found with that email")
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query user", zap.Error(err))
		renderLoginPage(w, dbErrorMessage)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		logRequest(ctx, "info", "Incorrect password", zap.String("email", creds.Email))
		renderLoginPage(w, "incorrect password")
		return
	}

	h.sessions.Create(w, user)

	logRequest(ctx, "info", "Login successful", zap.Int("user_id", user.ID))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET /logout - drop the session and redirect to login.
// Runs unconditionally so a stale cookie is cleared too.
func (h *AuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, r)

	logRequest(ctx, "info", "Logged out")

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Home handles GET / - the todo list page, login-gated
func (h *AuthHandler) Home(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	var count int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM todos WHERE user_id = ?", user.ID).Scan(&count); err != nil {
		logRequest(ctx, "error", "Failed to count todos", zap.Error(err), zap.Int("user_id", user.ID))
		count = 0
	}

	logRequest(ctx, "info", "Rendering home page", zap.Int("user_id", user.ID))

	renderHomePage(w, user.Email, count)
}
