package repository

import (
	"context"

	"gorm.io/gorm"

	"myblog/internal/model"
)

// PostRepository defines post persistence operations. Listings are always
// ordered by publish date, newest first.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	ListRecent(ctx context.Context, count int) ([]model.Post, error)
	Search(ctx context.Context, phrase string) ([]model.Post, error)
	FindByTag(ctx context.Context, tag string) ([]model.Post, error)
	// SlugExists reports whether another post (id != excludeID) already owns
	// the slug. Used by the collision policy in the post service.
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Order("date_published desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListRecent(ctx context.Context, count int) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Order("date_published desc").Limit(count).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Search matches the phrase case-insensitively anywhere in the post content.
func (r *postRepository) Search(ctx context.Context, phrase string) ([]model.Post, error) {
	var posts []model.Post
	pattern := "%" + phrase + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(content) LIKE LOWER(?)", pattern).
		Order("date_published desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByTag matches against the comma-delimited tags column.
func (r *postRepository) FindByTag(ctx context.Context, tag string) ([]model.Post, error) {
	var posts []model.Post
	pattern := "%" + tag + "%"
	if err := r.db.WithContext(ctx).
		Where("tags LIKE ?", pattern).
		Order("date_published desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
