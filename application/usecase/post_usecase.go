package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/authly/authly/application/port/inbound"
	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/domain/entity"
)

type postUseCase struct {
	posts outbound.PostRepository
}

func NewPostUseCase(posts outbound.PostRepository) inbound.PostUseCase {
	return &postUseCase{posts: posts}
}

func (uc *postUseCase) CreatePost(ctx context.Context, ownerID string, req inbound.CreatePostRequest) (*entity.Post, error) {
	post := entity.NewPost(uuid.New().String(), ownerID, req.Text)
	if err := uc.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context, ownerID string) ([]*entity.Post, error) {
	return uc.posts.FindByOwner(ctx, ownerID)
}
