package models

import "time"

// Post is a blog post owned by the backend.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Summary   string    `json:"summary,omitempty"`
}

func (p Post) GetID() string { return p.ID }

// Body returns the text shown on the details and edit screens.
func (p Post) Body() string {
	if p.Content != "" {
		return p.Content
	}
	return p.Summary
}

// PostRequest is the body of POST /posts and PUT /posts/{id}.
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
	Author  string `json:"author"`
}

// ListResponse is the paginated envelope used by /posts and /users.
type ListResponse[T any] struct {
	Data     []T `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
}
