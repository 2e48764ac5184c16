package model

type UpdateAuthorDTO struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

type UpdatePostDTO struct {
	Title   *string          `json:"title,omitempty"`
	Content *string          `json:"content,omitempty"`
	Author  *UpdateAuthorDTO `json:"author,omitempty"`
}

// IsEmpty reports whether the update carries no field to change.
func (u *UpdatePostDTO) IsEmpty() bool {
	if u == nil {
		return true
	}
	if u.Title != nil || u.Content != nil {
		return false
	}
	return u.Author == nil || (u.Author.FirstName == nil && u.Author.LastName == nil)
}

// Apply copies the set fields onto post.
func (u *UpdatePostDTO) Apply(post *Post) {
	if u == nil || post == nil {
		return
	}
	if u.Title != nil {
		post.Title = *u.Title
	}
	if u.Content != nil {
		post.Content = *u.Content
	}
	if u.Author != nil {
		if u.Author.FirstName != nil {
			post.Author.FirstName = *u.Author.FirstName
		}
		if u.Author.LastName != nil {
			post.Author.LastName = *u.Author.LastName
		}
	}
}
