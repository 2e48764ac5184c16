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

type PostGetter interface {
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
}

type GetPostHandler struct {
	postService PostGetter
	validate    *validator.Validate
	log         ports.Logger
}

func NewGetPostHandler(postService PostGetter, validate *validator.Validate, log ports.Logger) *GetPostHandler {
	return &GetPostHandler{
		postService: postService,
		validate:    validate,
		log:         log,
	}
}

type GetPostRequestInternal struct {
	PostID string `validate:"required"`
}

func (h *GetPostHandler) GetPost(c *gin.Context) {
	req := &GetPostRequestInternal{PostID: c.Param("id")}
	if err := h.validate.Struct(req); err != nil {
		h.log.Debug("GetPost validation failed", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "invalid request")
		return
	}

	post, err := h.postService.GetPostByID(c.Request.Context(), req.PostID)
	if err != nil {
		status, msg := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Error("Failed to get post", slog.String("post_id", req.PostID), slog.String("error", err.Error()))
		} else {
			h.log.Debug("Post not returned", slog.String("post_id", req.PostID), slog.String("error", err.Error()))
		}
		abortWithError(c, status, msg)
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}
