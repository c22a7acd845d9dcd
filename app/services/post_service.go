package services

import (
	"context"
	"fmt"

	"postadmin/app/models"
	"postadmin/app/repositories"

	log "github.com/sirupsen/logrus"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
	}
}

// GetPost retrieves a post by slug. A missing post yields repositories.ErrNotFound.
func (s *PostService) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get post %q: %w", slug, err)
	}
	return post, nil
}

// ListPosts retrieves every post ordered by slug
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// CreatePost validates and stores a new post
func (s *PostService) CreatePost(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return fmt.Errorf("create post %q: %w", post.Slug, err)
	}

	log.Debugf("post [%s] created", post.Slug)
	return nil
}

// UpdatePost validates the submitted fields and, when all are present,
// replaces the post stored under slug. Validation failures are returned
// as models.FieldErrors and nothing is written.
func (s *PostService) UpdatePost(ctx context.Context, slug string, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	if err := s.postRepo.Update(ctx, slug, post); err != nil {
		return fmt.Errorf("update post %q: %w", slug, err)
	}

	if slug != post.Slug {
		log.Debugf("post [%s] updated, renamed to [%s]", slug, post.Slug)
	} else {
		log.Debugf("post [%s] updated", slug)
	}
	return nil
}
