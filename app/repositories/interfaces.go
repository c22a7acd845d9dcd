package repositories

import (
	"context"

	"postadmin/app/models"
)

// PostRepository defines the interface for post data access.
// Posts are keyed by slug.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	// Update replaces title, slug and markdown of the post stored under slug.
	// When post.Slug differs from slug the record is moved to the new key.
	Update(ctx context.Context, slug string, post *models.Post) error
	Delete(ctx context.Context, slug string) error
}
