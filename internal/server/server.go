package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bingo/internal/config"
	"bingo/internal/handler"
	"bingo/internal/middleware"
	"bingo/internal/repository"
	"bingo/internal/session"
	"bingo/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine   *gin.Engine
	DB       *gorm.DB
	Sessions *session.Manager
	Config   *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := runMigrations(db, cfg.DBName); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Schema up to date")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories and stores
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	images := storage.NewImageStore(cfg.UploadDir, cfg.PublicOrigin+"/uploads")
	sessions := session.NewManager(boardRepo, session.DefaultQuietPeriod, nil)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, sessions, cfg.JWTSecret)
	boardHandler := handler.NewBoardHandler(boardRepo, sessions)
	squaresHandler := handler.NewSquaresHandler(boardRepo, sessions)
	imageHandler := handler.NewImageHandler(boardRepo, images, sessions)
	shareHandler := handler.NewShareHandler(boardRepo, cfg.PublicOrigin)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/board/view/:id", shareHandler.View)
	r.Static("/uploads", cfg.UploadDir)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Session routes
		authorized.GET("/me", userHandler.Me)
		authorized.POST("/logout", userHandler.Logout)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.List)
		authorized.GET("/boards/:id", boardHandler.Get)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.POST("/boards/:id/edits", boardHandler.Edit)
		authorized.POST("/boards/:id/save", boardHandler.Save)
		authorized.POST("/boards/:id/duplicate", boardHandler.Duplicate)
		authorized.POST("/boards/:id/archive", boardHandler.Archive)

		// Square routes
		authorized.PUT("/boards/:id/squares", squaresHandler.Replace)
		authorized.PUT("/boards/:id/squares/:square_id", squaresHandler.UpdateContent)
		authorized.POST("/boards/:id/squares/reorder", squaresHandler.Reposition)
		authorized.POST("/boards/:id/squares/randomize", squaresHandler.Randomize)
		authorized.POST("/boards/:id/squares/reset", squaresHandler.Reset)

		// Image routes
		authorized.POST("/boards/:id/images/:slot", imageHandler.Upload)
		authorized.DELETE("/boards/:id/images/:slot", imageHandler.Remove)

		// Sharing routes
		authorized.GET("/boards/:id/share", shareHandler.ShareURL)
	}
	return &Server{
		Engine:   r,
		DB:       db,
		Sessions: sessions,
		Config:   cfg,
	}, nil
}

func runMigrations(db *gorm.DB, dbName string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", dbName, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	s.Sessions.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
