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

type PostCreator interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
}

type CreatePostHandler struct {
	postService PostCreator
	validate    *validator.Validate
	log         ports.Logger
}

func NewCreatePostHandler(postService PostCreator, validate *validator.Validate, log ports.Logger) *CreatePostHandler {
	return &CreatePostHandler{
		postService: postService,
		validate:    validate,
		log:         log,
	}
}

type CreatePostRequest struct {
	Author struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"author"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type CreatePostRequestInternal struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Title     string `validate:"required"`
	Content   string `validate:"required"`
}

func (h *CreatePostHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug("CreatePost bad body", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	validationReq := &CreatePostRequestInternal{
		FirstName: req.Author.FirstName,
		LastName:  req.Author.LastName,
		Title:     req.Title,
		Content:   req.Content,
	}
	if err := h.validate.Struct(validationReq); err != nil {
		h.log.Debug("CreatePost validation failed", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	created, err := h.postService.CreatePost(c.Request.Context(), &model.CreatePostDTO{
		Author: model.Author{
			FirstName: validationReq.FirstName,
			LastName:  validationReq.LastName,
		},
		Title:   validationReq.Title,
		Content: validationReq.Content,
	})
	if err != nil {
		status, msg := statusFromError(err)
		h.log.Error("Failed to create post", slog.String("title", validationReq.Title), slog.String("error", err.Error()))
		abortWithError(c, status, msg)
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(created))
}
