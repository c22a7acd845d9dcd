package mock

import (
	"context"
	"sort"
	"sync"

	"postadmin/app/models"
	"postadmin/app/repositories"
)

var _ repositories.PostRepository = (*PostRepository)(nil)

// UpdateCall records the arguments of one Update invocation.
type UpdateCall struct {
	Slug string
	Post models.Post
}

// PostRepository is an in-memory PostRepository that records updates.
type PostRepository struct {
	posts   map[string]*models.Post
	updates []UpdateCall
	mutex   sync.RWMutex

	// UpdateErr, when set, is returned by Update after the call is recorded.
	UpdateErr error
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[string]*models.Post),
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[string]*models.Post)
	m.updates = nil
}

// Updates returns every Update call seen so far.
func (m *PostRepository) Updates() []UpdateCall {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]UpdateCall(nil), m.updates...)
}

func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.Slug]; exists {
		return repositories.ErrSlugTaken
	}
	stored := *post
	m.posts[post.Slug] = &stored
	return nil
}

func (m *PostRepository) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[slug]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *post
	return &cp, nil
}

func (m *PostRepository) List(_ context.Context) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.posts))
	for _, post := range m.posts {
		cp := *post
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Slug < posts[j].Slug })
	return posts, nil
}

func (m *PostRepository) Update(_ context.Context, slug string, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.updates = append(m.updates, UpdateCall{Slug: slug, Post: *post})
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	stored, exists := m.posts[slug]
	if !exists {
		return repositories.ErrNotFound
	}
	if post.Slug != slug {
		if _, taken := m.posts[post.Slug]; taken {
			return repositories.ErrSlugTaken
		}
		delete(m.posts, slug)
	}
	stored.Apply(post)
	m.posts[post.Slug] = stored
	return nil
}

func (m *PostRepository) Delete(_ context.Context, slug string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[slug]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, slug)
	return nil
}
