package memory

import (
	"context"
	"sync"

	"github.com/authly/authly/domain/entity"
)

type PostRepository struct {
	mu    sync.Mutex
	posts map[string]*entity.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*entity.Post)}
}

func (r *PostRepository) Create(ctx context.Context, post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *PostRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Post
	for _, post := range r.posts {
		if post.OwnerID == ownerID {
			copied := *post
			result = append(result, &copied)
		}
	}
	return result, nil
}
