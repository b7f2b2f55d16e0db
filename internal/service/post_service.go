package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"myblog/internal/cache"
	"myblog/internal/errors"
	"myblog/internal/format"
	"myblog/internal/model"
	"myblog/internal/repository"
	"myblog/internal/slug"
)

const (
	postCacheTTL = 5 * time.Minute

	// XML samples in post content are fenced with these markers; the payload
	// between them is escaped for display at render time.
	xmlBlockStart = "[xmldata]"
	xmlBlockEnd   = "[/xmldata]"
)

// PostService handles post CRUD and browsing. The slug is recomputed from the
// title on every create and update.
type PostService interface {
	CreatePost(ctx context.Context, post *model.Post) (*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) (*model.Post, error)
	DeletePost(ctx context.Context, id uint) error
	GetPost(ctx context.Context, id uint) (*model.Post, error)
	// GetPostBySlug returns the post with its content rendered for display.
	GetPostBySlug(ctx context.Context, slugValue string) (*model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	ListRecent(ctx context.Context, count int) ([]model.Post, error)
	SearchPosts(ctx context.Context, phrase string) ([]model.Post, error)
	PostsByTag(ctx context.Context, tag string) ([]model.Post, error)
}

type postService struct {
	repo  repository.PostRepository
	cache *cache.Client
}

// NewPostService builds a PostService with repository and cache.
func NewPostService(repo repository.PostRepository, cache *cache.Client) PostService {
	return &postService{repo: repo, cache: cache}
}

func (s *postService) cacheKey(slugValue string) string {
	return fmt.Sprintf("post:slug:%s", slugValue)
}

// uniqueSlug derives the slug from the title and disambiguates collisions by
// appending the first free numeric suffix (-2, -3, ...). excludeID keeps a
// post's own slug from colliding with itself on update.
func (s *postService) uniqueSlug(ctx context.Context, title string, excludeID uint) (string, error) {
	base := slug.Generate(title)
	if base == "" {
		return "", nil
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// CreatePost stores a new post, deriving its slug from the title.
func (s *postService) CreatePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	if post.DatePublished.IsZero() {
		post.DatePublished = time.Now()
	}

	slugValue, err := s.uniqueSlug(ctx, post.Title, 0)
	if err != nil {
		return nil, err
	}
	post.Slug = slugValue

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(post.Slug))
	return post, nil
}

// UpdatePost saves an edited post, recomputing the slug from the possibly
// changed title and invalidating the cached rendering under both slugs.
func (s *postService) UpdatePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	existing, err := s.repo.FindByID(ctx, post.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", post.ID, err)
	}

	slugValue, err := s.uniqueSlug(ctx, post.Title, post.ID)
	if err != nil {
		return nil, err
	}
	post.Slug = slugValue
	post.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post %d: %w", post.ID, err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(existing.Slug))
	_ = s.cache.Delete(ctx, s.cacheKey(post.Slug))
	return post, nil
}

// DeletePost removes a post by id.
func (s *postService) DeletePost(ctx context.Context, id uint) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrPostNotFound
		}
		return fmt.Errorf("load post %d: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(existing.Slug))
	return nil
}

// GetPost returns the raw (unrendered) post, as edited by the author.
func (s *postService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// GetPostBySlug returns the post with formatted content, from cache when
// possible. Formatting is applied at render time only; the stored content is
// never modified.
func (s *postService) GetPostBySlug(ctx context.Context, slugValue string) (*model.Post, error) {
	if slugValue == "" {
		return nil, errors.ErrEmptySlug
	}

	if data, _ := s.cache.Get(ctx, s.cacheKey(slugValue)); data != nil {
		var cached model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPostNotFound
		}
		return nil, err
	}

	rendered := *post
	rendered.Content = format.XMLBlocks(rendered.Content, xmlBlockStart, xmlBlockEnd)
	rendered.Content = format.NewlineToHTML(rendered.Content)

	if payload, err := json.Marshal(&rendered); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(slugValue), payload, postCacheTTL)
	}
	return &rendered, nil
}

func (s *postService) ListPosts(ctx context.Context) ([]model.Post, error) {
	return s.repo.List(ctx)
}

func (s *postService) ListRecent(ctx context.Context, count int) ([]model.Post, error) {
	return s.repo.ListRecent(ctx, count)
}

func (s *postService) SearchPosts(ctx context.Context, phrase string) ([]model.Post, error) {
	if phrase == "" {
		return nil, errors.ErrEmptySearch
	}
	return s.repo.Search(ctx, phrase)
}

func (s *postService) PostsByTag(ctx context.Context, tag string) ([]model.Post, error) {
	if tag == "" {
		return []model.Post{}, nil
	}
	return s.repo.FindByTag(ctx, tag)
}
