package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskchecker-api/internal/config"
	"github.com/BuzzLyutic/taskchecker-api/internal/handler"
	"github.com/BuzzLyutic/taskchecker-api/internal/repo"
	"github.com/BuzzLyutic/taskchecker-api/internal/service"
	"github.com/BuzzLyutic/taskchecker-api/internal/session"
	"github.com/BuzzLyutic/taskchecker-api/internal/worker"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Хранилище живет в памяти процесса, никакого глобального состояния
	taskRepo := repo.NewTaskListRepo(cfg.MaxListsPerSession)
	taskService := service.NewTaskService(taskRepo, cfg)
	registry := session.NewRegistry(taskRepo, logger, cfg.SessionTimeout, cfg.MaxConcurrentSessions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Фоновая зачистка совсем старых списков
	sweeper := worker.NewSweeper(taskRepo, logger, cfg.SweepInterval, cfg.MaxTaskListAge)
	sweeper.Start(ctx)

	taskHandler := handler.NewTaskHandler(taskService, registry, logger)
	sessionHandler := handler.NewSessionHandler(registry, logger)

	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","service":"taskchecker-api","activeSessions":%d}`, registry.Count())
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/tasklists", taskHandler.CreateTaskList)
		r.Get("/tasklists/{listID}", taskHandler.GetStatus)
		r.Get("/tasklists/{listID}/tasks/{taskID}", taskHandler.GetTask)
		r.Patch("/tasklists/{listID}/tasks/{taskID}", taskHandler.UpdateTask)
		r.Get("/stats", taskHandler.Stats)
		r.Get("/sessions", sessionHandler.List)
		r.Delete("/sessions/{sessionID}", sessionHandler.Delete)
	})

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}

	sweeper.Stop()
	registry.Shutdown()
	logger.Info("Server stopped succsessfully!")
}
