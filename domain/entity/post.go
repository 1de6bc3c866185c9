package entity

import (
	"time"
)

// Post is the minimal protected resource exposed behind the auth guard.
type Post struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPost(id, ownerID, text string) *Post {
	return &Post{
		ID:        id,
		OwnerID:   ownerID,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
