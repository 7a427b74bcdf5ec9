package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/todopad/todopad-go/internal/config"
	"github.com/todopad/todopad-go/internal/handler"
	"github.com/todopad/todopad-go/internal/middleware"
	"github.com/todopad/todopad-go/internal/repository"
	"github.com/todopad/todopad-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repository.EnsureIndexes(indexCtx, db); err != nil {
		slog.Error("index creation failed", "error", err)
		os.Exit(1)
	}
	cancelIndex()

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	authHandler := handler.NewAuthHandler(authService)

	todoRepo := repository.NewTodoRepository(db)
	todoService := service.NewTodoService(todoRepo)
	todoHandler := handler.NewTodoHandler(todoService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{middleware.AuthHeader, "Content-Type"},
		ExposedHeaders: []string{middleware.AuthHeader, "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/users", authHandler.HandleRegister)
	r.Post("/users/login", authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(authService))

		r.Get("/users/me", authHandler.HandleMe)
		r.Delete("/users/me/token", authHandler.HandleLogout)

		r.Post("/todos", todoHandler.HandleCreate)
		r.Get("/todos", todoHandler.HandleList)
		r.Get("/todos/{id}", todoHandler.HandleGet)
		r.Patch("/todos/{id}", todoHandler.HandleUpdate)
		r.Delete("/todos/{id}", todoHandler.HandleDelete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
