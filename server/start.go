package server

import (
	"context"
	"net/http"
	"os"
	"time"

	cachepackage "todo-service/cache"
	"todo-service/config"
	"todo-service/database"
	"todo-service/handlers"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Todo Service...")

	cfg := config.MustLoad()

	// Initialize database
	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache(cfg)
	defer cache.Close()

	// Sessions live in the cache; the cookie references them
	sessions := handlers.NewSessions(cache, cfg.Session.CookieName,
		time.Duration(cfg.Session.TTLHours)*time.Hour)

	// Initialize handlers
	todoHandler := handlers.NewTodoHandler(dbConn, cache, sessions)
	authHandler := handlers.NewAuthHandler(dbConn, sessions)

	// The session check gates every route registered with AuthType
	// "session"; unauthenticated API requests get a failure response
	// rather than the page redirect.
	server := httpserver.New(cfg.Server.Port, sessions.CheckAuth())

	// Register routes
	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "todo-service"}`))
	}))

	server.Register(httpserver.Route{
		Name:     "ListTodos",
		Method:   "GET",
		Path:     "/api/todos",
		AuthType: "session",
	}, httpserver.HandlerFunc(todoHandler.ListTodos))

	server.Register(httpserver.Route{
		Name:     "GetTodo",
		Method:   "GET",
		Path:     "/api/todos/{id}",
		AuthType: "session",
	}, httpserver.HandlerFunc(todoHandler.GetTodo))

	server.Register(httpserver.Route{
		Name:     "CreateTodo",
		Method:   "POST",
		Path:     "/api/todos",
		AuthType: "session",
	}, httpserver.HandlerFunc(todoHandler.CreateTodo))

	server.Register(httpserver.Route{
		Name:     "ToggleTodo",
		Method:   "PUT",
		Path:     "/api/todos/mark/{id}",
		AuthType: "session",
	}, httpserver.HandlerFunc(todoHandler.ToggleTodo))

	server.Register(httpserver.Route{
		Name:     "UpdateTodo",
		Method:   "PUT",
		Path:     "/api/todos/{id}",
		AuthType: "session",
	}, httpserver.HandlerFunc(todoHandler.UpdateTodo))

	server.Register(httpserver.Route{
		Name:     "DeleteTodo",
		Method:   "DELETE",
		Path:     "/api/todos/{id}",
		AuthType: "session",
	}, httpserver.HandlerFunc(todoHandler.DeleteTodo))

	// Page routes gate themselves: an unauthenticated browser gets a
	// redirect to /login, not a JSON error.
	server.Register(httpserver.Route{
		Name:     "RegisterPage",
		Method:   "GET",
		Path:     "/register",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.RegisterPage))

	server.Register(httpserver.Route{
		Name:     "Register",
		Method:   "POST",
		Path:     "/register",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Register))

	server.Register(httpserver.Route{
		Name:     "LoginPage",
		Method:   "GET",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.LoginPage))

	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Login))

	server.Register(httpserver.Route{
		Name:     "Logout",
		Method:   "GET",
		Path:     "/logout",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Logout))

	server.Register(httpserver.Route{
		Name:     "Home",
		Method:   "GET",
		Path:     "/",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Home))

	logger.Info("Todo Service started on port " + cfg.Server.Port)
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints: GET/POST/PUT/DELETE /api/todos")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
