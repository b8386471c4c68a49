package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zentrixai8-sys/checklist-sub001/internal/cache"
	"github.com/zentrixai8-sys/checklist-sub001/internal/config"
	"github.com/zentrixai8-sys/checklist-sub001/internal/handler"
	"github.com/zentrixai8-sys/checklist-sub001/internal/middleware"
	"github.com/zentrixai8-sys/checklist-sub001/internal/repository"
	"github.com/zentrixai8-sys/checklist-sub001/internal/service"
	"github.com/zentrixai8-sys/checklist-sub001/internal/sheet"
)

func main() {
	cfg := config.Load()

	gin.SetMode(cfg.Server.Mode)

	var store cache.Store
	if cfg.Redis.Enabled {
		redis, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		store = redis
	} else {
		log.Println("Redis disabled, using in-memory cache")
		store = cache.NewMemory()
	}
	defer store.Close()

	sheetClient := sheet.NewClient(cfg.Upstream, store)

	userRepo := repository.NewUserRepository(sheetClient, cfg.Upstream)
	taskRepo := repository.NewTaskRepository(sheetClient, cfg.Upstream)

	authService := service.NewAuthService(userRepo, store, cfg.JWT)
	taskService := service.NewTaskService(taskRepo)
	dashboardService := service.NewDashboardService(taskRepo)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	healthHandler := handler.NewHealthHandler(store)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Metrics())

	r.GET("/health/live", healthHandler.Liveness)
	r.GET("/health/ready", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		protected := v1.Group("")
		protected.Use(middleware.Auth(authService))
		{
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/tasks", taskHandler.List)
			protected.GET("/dashboard", dashboardHandler.Summary)
			protected.POST("/cache/refresh", taskHandler.Refresh)
		}
	}

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
