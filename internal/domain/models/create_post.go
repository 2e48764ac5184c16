package model

type CreatePostDTO struct {
	Author  Author `json:"author"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
