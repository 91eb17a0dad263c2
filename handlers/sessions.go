package handlers

import (
	"net/http"
	"strconv"
	"time"

	"todo-service/models"

	"github.com/google/uuid"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/httpserver"
)

// Session records live in the cache under this prefix, keyed by the
// opaque cookie token.
const sessionKeyPrefix = "session:"

// Sessions manages cookie-backed login sessions. The server-side record is
// stored in the cache (Redis in production, memory in tests) and referenced
// by an httpOnly cookie carrying an opaque UUID token.
type Sessions struct {
	cache      cache.Cache
	cookieName string
	ttl        time.Duration
}

func NewSessions(c cache.Cache, cookieName string, ttl time.Duration) *Sessions {
	return &Sessions{
		cache:      c,
		cookieName: cookieName,
		ttl:        ttl,
	}
}

// SessionUser is the identity resolved from a session cookie.
type SessionUser struct {
	ID    int
	Email string
}

// Create stores a new session record for user and sets the session cookie.
func (s *Sessions) Create(w http.ResponseWriter, user models.User) {
	sessionID := uuid.New().String()

	// user_id is stored stringified so the value survives both the memory
	// cache (stored as-is) and the Redis cache (JSON round-trip).
	sessionData := map[string]interface{}{
		"user_id": strconv.Itoa(user.ID),
		"email":   user.Email,
	}
	s.cache.Set(sessionKeyPrefix+sessionID, sessionData, s.ttl)

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,  // Prevent JS access
		Secure:   false, // True behind HTTPS
		MaxAge:   int(s.ttl / time.Second),
	})
}

// CurrentUser resolves the request's session cookie to an authenticated
// user, or nil when there is no valid session.
func (s *Sessions) CurrentUser(r *http.Request) *SessionUser {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil
	}

	cached, err := s.cache.Get(sessionKeyPrefix + cookie.Value)
	if err != nil {
		return nil
	}
	sessionData, ok := cached.(map[string]interface{})
	if !ok {
		return nil
	}

	idStr, ok := sessionData["user_id"].(string)
	if !ok {
		return nil
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil
	}
	email, _ := sessionData["email"].(string)

	return &SessionUser{ID: id, Email: email}
}

// Clear deletes the session record and expires the cookie. Safe to call
// without a live session.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		s.cache.Delete(sessionKeyPrefix + cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// CheckAuth returns the auth check the HTTP server runs for routes
// registered with AuthType "session". Unauthenticated requests to those
// routes are rejected before the handler runs.
func (s *Sessions) CheckAuth() func(r *http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		user := s.CurrentUser(r)
		if user == nil {
			return false, httpserver.RequestAuth{}
		}
		return true, httpserver.RequestAuth{
			Type:   "session",
			Client: user.Email,
			Claims: map[string]interface{}{"user_id": user.ID},
		}
	}
}
