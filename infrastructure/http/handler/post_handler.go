package handler

import (
	"encoding/json"
	"net/http"

	"github.com/authly/authly/application/port/inbound"
	"github.com/authly/authly/domain/entity"
	"github.com/authly/authly/infrastructure/http/middleware"
	"github.com/authly/authly/infrastructure/http/response"
	"github.com/authly/authly/infrastructure/http/validator"
	"github.com/authly/authly/infrastructure/service/logger"
)

// PostHandler serves the protected resource behind the access-token guard.
type PostHandler struct {
	posts  inbound.PostUseCase
	logger logger.Logger
}

func NewPostHandler(posts inbound.PostUseCase, log logger.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: log}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req inbound.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validator.ValidateRequired(req.Text) {
		response.BadRequest(w, "text is required")
		return
	}

	post, err := h.posts.CreatePost(r.Context(), userID, req)
	if err != nil {
		h.logger.Error(r.Context(), "post creation failed", err, nil)
		response.InternalServerError(w, "internal server error")
		return
	}
	response.JSON(w, http.StatusOK, post)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	posts, err := h.posts.ListPosts(r.Context(), userID)
	if err != nil {
		h.logger.Error(r.Context(), "post listing failed", err, nil)
		response.InternalServerError(w, "internal server error")
		return
	}
	if posts == nil {
		posts = []*entity.Post{}
	}
	response.JSON(w, http.StatusOK, posts)
}
