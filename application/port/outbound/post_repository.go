package outbound

import (
	"context"

	"github.com/authly/authly/domain/entity"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByOwner(ctx context.Context, ownerID string) ([]*entity.Post, error)
}
