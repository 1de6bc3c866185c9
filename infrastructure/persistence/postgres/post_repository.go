package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/domain/entity"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) outbound.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	query := `
		INSERT INTO posts (id, owner_id, text, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, post.ID, post.OwnerID, post.Text, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.Post, error) {
	query := `
		SELECT id, owner_id, text, created_at
		FROM posts
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*entity.Post
	for rows.Next() {
		post := &entity.Post{}
		if err := rows.Scan(&post.ID, &post.OwnerID, &post.Text, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}
