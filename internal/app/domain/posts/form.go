package posts

import (
	"strings"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

const missingFieldsMessage = "Por favor, preencha o título e o conteúdo."

var formMessages = map[string]string{
	"title.required":   missingFieldsMessage,
	"content.required": missingFieldsMessage,
}

// Form is the post editor state.
type Form struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// FormFromPost prefills the editor; posts without content fall back to their summary.
func FormFromPost(p models.Post) Form {
	return Form{Title: p.Title, Content: p.Body()}
}

// Request validates the form and builds the request body. The summary
// mirrors the content and the author is the signed-in user's display name,
// or their email when the name is empty.
func (f Form) Request(author *models.User) (models.PostRequest, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	if err := models.Validate(f, formMessages); err != nil {
		return models.PostRequest{}, err
	}
	return models.PostRequest{
		Title:   f.Title,
		Content: f.Content,
		Summary: f.Content,
		Author:  author.AuthorName(),
	}, nil
}
