package inbound

import (
	"context"

	"github.com/authly/authly/domain/entity"
)

type CreatePostRequest struct {
	Text string `json:"text"`
}

type PostUseCase interface {
	CreatePost(ctx context.Context, ownerID string, req CreatePostRequest) (*entity.Post, error)
	ListPosts(ctx context.Context, ownerID string) ([]*entity.Post, error)
}
