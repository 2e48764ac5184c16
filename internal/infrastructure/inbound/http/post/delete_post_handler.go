package post_http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	ports "blog-post-service/internal/domain/ports/output"
)

type PostDeleter interface {
	DeletePost(ctx context.Context, id string) error
}

type DeletePostHandler struct {
	postService PostDeleter
	validate    *validator.Validate
	log         ports.Logger
}

func NewDeletePostHandler(postService PostDeleter, validate *validator.Validate, log ports.Logger) *DeletePostHandler {
	return &DeletePostHandler{
		postService: postService,
		validate:    validate,
		log:         log,
	}
}

type DeletePostRequestInternal struct {
	PostID string `validate:"required"`
}

func (h *DeletePostHandler) DeletePost(c *gin.Context) {
	req := &DeletePostRequestInternal{PostID: c.Param("id")}
	if err := h.validate.Struct(req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), req.PostID); err != nil {
		status, msg := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Error("Failed to delete post", slog.String("post_id", req.PostID), slog.String("error", err.Error()))
		}
		abortWithError(c, status, msg)
		return
	}

	c.Status(http.StatusNoContent)
}
