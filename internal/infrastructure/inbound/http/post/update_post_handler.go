package post_http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	model "blog-post-service/internal/domain/models"
	ports "blog-post-service/internal/domain/ports/output"
)

type PostUpdater interface {
	UpdatePost(ctx context.Context, id string, update *model.UpdatePostDTO) (*model.Post, error)
	CanonicalID(id string) string
}

type UpdatePostHandler struct {
	postService PostUpdater
	validate    *validator.Validate
	log         ports.Logger
}

func NewUpdatePostHandler(postService PostUpdater, validate *validator.Validate, log ports.Logger) *UpdatePostHandler {
	return &UpdatePostHandler{
		postService: postService,
		validate:    validate,
		log:         log,
	}
}

type UpdatePostRequest struct {
	ID      *string                `json:"id"`
	Title   *string                `json:"title"`
	Content *string                `json:"content"`
	Author  *model.UpdateAuthorDTO `json:"author"`
}

type UpdatePostRequestInternal struct {
	PostID    string  `validate:"required"`
	Title     *string `validate:"omitnil,min=1"`
	Content   *string `validate:"omitnil,min=1"`
	FirstName *string `validate:"omitnil,min=1"`
	LastName  *string `validate:"omitnil,min=1"`
}

// UpdatePost answers 201 with the stored post; clients of this API depend on that code.
func (h *UpdatePostHandler) UpdatePost(c *gin.Context) {
	postID := c.Param("id")

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug("UpdatePost bad body", slog.String("post_id", postID), slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.ID != nil && h.postService.CanonicalID(*req.ID) != h.postService.CanonicalID(postID) {
		h.log.Debug("UpdatePost id mismatch", slog.String("path_id", postID), slog.String("body_id", *req.ID))
		abortWithError(c, http.StatusBadRequest, "request path id and body id must match")
		return
	}

	validationReq := &UpdatePostRequestInternal{
		PostID:  postID,
		Title:   req.Title,
		Content: req.Content,
	}
	if req.Author != nil {
		validationReq.FirstName = req.Author.FirstName
		validationReq.LastName = req.Author.LastName
	}
	if err := h.validate.Struct(validationReq); err != nil {
		h.log.Debug("UpdatePost validation failed", slog.String("post_id", postID), slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	update := &model.UpdatePostDTO{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}

	updated, err := h.postService.UpdatePost(c.Request.Context(), postID, update)
	if err != nil {
		status, msg := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Error("Failed to update post", slog.String("post_id", postID), slog.String("error", err.Error()))
		} else {
			h.log.Debug("Post not updated", slog.String("post_id", postID), slog.String("error", err.Error()))
		}
		abortWithError(c, status, msg)
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(updated))
}
