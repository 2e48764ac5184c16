package post_http

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	post_service "blog-post-service/internal/domain/ports/input/post"
	ports "blog-post-service/internal/domain/ports/output"
)

var validate = validator.New()

// PostAPI groups the /posts handlers over one service.
type PostAPI struct {
	listPostsHandler  *ListPostsHandler
	getPostHandler    *GetPostHandler
	createPostHandler *CreatePostHandler
	updatePostHandler *UpdatePostHandler
	deletePostHandler *DeletePostHandler
}

func NewPostAPI(postService post_service.Service, log ports.Logger) *PostAPI {
	return &PostAPI{
		listPostsHandler:  NewListPostsHandler(postService, log),
		getPostHandler:    NewGetPostHandler(postService, validate, log),
		createPostHandler: NewCreatePostHandler(postService, validate, log),
		updatePostHandler: NewUpdatePostHandler(postService, validate, log),
		deletePostHandler: NewDeletePostHandler(postService, validate, log),
	}
}

func (a *PostAPI) Register(r gin.IRouter) {
	posts := r.Group("/posts")
	posts.GET("", a.listPostsHandler.ListPosts)
	posts.GET("/:id", a.getPostHandler.GetPost)
	posts.POST("", a.createPostHandler.CreatePost)
	posts.PUT("/:id", a.updatePostHandler.UpdatePost)
	posts.DELETE("/:id", a.deletePostHandler.DeletePost)
}
