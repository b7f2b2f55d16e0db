package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"

	_ "myblog/docs" // swagger docs

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"myblog/internal/auth"
	"myblog/internal/cache"
	"myblog/internal/config"
	"myblog/internal/db"
	"myblog/internal/handler"
	"myblog/internal/mailer"
	"myblog/internal/model"
	"myblog/internal/repository"
	"myblog/internal/router"
	"myblog/internal/service"
	"myblog/internal/storage"
)

// @title MyBlog API
// @version 1.0
// @description Single-author blog CMS: posts, tags, search, author account management.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Post{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	resetStore := auth.NewResetTokenStore(cacheClient)

	// External collaborators
	mail := mailer.NewFileMailer(cfg.MailOutboxPath)
	resources := storage.NewLocalStorage(cfg.UploadDir)
	resetURL := func(userID uuid.UUID, token string) string {
		return fmt.Sprintf("%s/reset-password?id=%s&token=%s", cfg.BaseURL, userID, url.QueryEscape(token))
	}

	// Initialize services
	userService := service.NewUserService(userRepo, jwtService, tokenStore, resetStore, mail, resources, resetURL)
	postService := service.NewPostService(postRepo, cacheClient)

	// Seed the administrator account if the database is fresh
	author := model.User{
		Email:           cfg.DefaultAuthor.Email,
		FirstName:       cfg.DefaultAuthor.FirstName,
		LastName:        cfg.DefaultAuthor.LastName,
		AboutAuthor:     cfg.DefaultAuthor.AboutAuthor,
		GithubProfile:   cfg.DefaultAuthor.GithubProfile,
		LinkedinProfile: cfg.DefaultAuthor.LinkedinProfile,
	}
	if _, created, err := service.SeedDefaultAuthor(context.Background(), userRepo, author, cfg.DefaultAuthor.Password); err != nil {
		log.Fatalf("seed author: %v", err)
	} else if created {
		log.Printf("seeded default author %s (change the default password on first login)", cfg.DefaultAuthor.Email)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	profileHandler := handler.NewProfileHandler(userService)
	postHandler := handler.NewPostHandler(postService, userService)
	homeHandler := handler.NewHomeHandler(userService, postService, cfg.RecentPosts)
	seedHandler := handler.NewSeedHandler(userRepo, cfg)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		profileHandler,
		postHandler,
		homeHandler,
		seedHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
