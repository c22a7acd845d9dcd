package repositories

import (
	"context"
	"errors"
	"time"

	"postadmin/app/models"

	"github.com/dgraph-io/badger/v4"
)

var _ PostRepository = (*BadgerPostRepository)(nil)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create stores a new post. The slug must not be taken yet.
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(post.Slug)
		_, err := txn.Get(key)
		if err == nil {
			return ErrSlugTaken
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if post.CreatedAt.IsZero() {
			post.CreatedAt = time.Now().UTC()
		}
		post.UpdatedAt = post.CreatedAt

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// GetBySlug retrieves a post by slug
func (r *BadgerPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(slug))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves all posts ordered by slug
func (r *BadgerPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update replaces the editable fields of the post stored under slug.
// Renaming and rewriting happen in one transaction.
func (r *BadgerPostRepository) Update(ctx context.Context, slug string, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		oldKey := postKey(slug)
		item, err := txn.Get(oldKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored models.Post
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &stored)
		}); err != nil {
			return err
		}

		newKey := postKey(post.Slug)
		if post.Slug != slug {
			_, err := txn.Get(newKey)
			if err == nil {
				return ErrSlugTaken
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Delete(oldKey); err != nil {
				return err
			}
		}

		stored.Apply(post)
		stored.UpdatedAt = time.Now().UTC()

		data, err := marshalEntity(&stored)
		if err != nil {
			return err
		}
		if err := txn.Set(newKey, data); err != nil {
			return err
		}

		post.CreatedAt = stored.CreatedAt
		post.UpdatedAt = stored.UpdatedAt
		return nil
	})
}

// Delete deletes a post by slug
func (r *BadgerPostRepository) Delete(ctx context.Context, slug string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(slug)

		// Verify post exists
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return txn.Delete(key)
	})
}
