package post_http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soloda1/pinstack-proto-definitions/custom_errors"

	model "blog-post-service/internal/domain/models"
)

// PostResponse is the public shape of a post. Author is flattened to a display name.
type PostResponse struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toPostResponse(p *model.Post) PostResponse {
	return PostResponse{
		ID:      p.ID,
		Author:  p.Author.FullName(),
		Title:   p.Title,
		Content: p.Content,
		Created: p.Created.UTC(),
	}
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// statusFromError maps service sentinels onto HTTP codes.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, custom_errors.ErrPostNotFound):
		return http.StatusNotFound, "post not found"
	case errors.Is(err, custom_errors.ErrPostValidation),
		errors.Is(err, custom_errors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid post"
	case errors.Is(err, custom_errors.ErrNoUpdateRows):
		return http.StatusBadRequest, "nothing to update"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
