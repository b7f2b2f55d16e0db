package main

import (
	"context"
	"log"
	"time"

	"myblog/internal/config"
	"myblog/internal/db"
	"myblog/internal/model"
	"myblog/internal/repository"
	"myblog/internal/service"
	"myblog/internal/slug"
)

// samplePosts gives a fresh blog something to show on the home page.
var samplePosts = []model.Post{
	{
		Title:    "Hello, World!",
		Abstract: "The obligatory first post.",
		Content:  "Welcome to the blog.\nMore posts coming soon.",
		Tags:     "meta,first",
	},
	{
		Title:    "Formatting XML samples in posts",
		Abstract: "How to embed raw XML in post content.",
		Content:  "Wrap samples like this:\n[xmldata]\n<note>escaped at render time</note>\n[/xmldata]\nand they show up verbatim.",
		Tags:     "writing,xml",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	author := model.User{
		Email:           cfg.DefaultAuthor.Email,
		FirstName:       cfg.DefaultAuthor.FirstName,
		LastName:        cfg.DefaultAuthor.LastName,
		AboutAuthor:     cfg.DefaultAuthor.AboutAuthor,
		GithubProfile:   cfg.DefaultAuthor.GithubProfile,
		LinkedinProfile: cfg.DefaultAuthor.LinkedinProfile,
	}

	seeded, created, err := service.SeedDefaultAuthor(ctx, userRepo, author, cfg.DefaultAuthor.Password)
	if err != nil {
		log.Fatalf("Failed to seed author: %v", err)
	}
	if created {
		log.Printf("Created default author %s", seeded.Email)
	} else {
		log.Printf("Author %s already exists, skipping", seeded.Email)
	}

	postsCreated := 0
	for i, post := range samplePosts {
		post.Slug = slug.Generate(post.Title)

		taken, err := postRepo.SlugExists(ctx, post.Slug, 0)
		if err != nil {
			log.Fatalf("Failed to check post %q: %v", post.Title, err)
		}
		if taken {
			continue
		}

		post.Author = seeded.FullName()
		post.DatePublished = time.Now().Add(-time.Duration(len(samplePosts)-i) * time.Hour)
		if err := postRepo.Create(ctx, &post); err != nil {
			log.Fatalf("Failed to create post %q: %v", post.Title, err)
		}
		postsCreated++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Sample posts created: %d", postsCreated)
}
