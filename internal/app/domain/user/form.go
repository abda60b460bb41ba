package user

import (
	"strings"

	"github.com/FACorreiaa/techblog/internal/app/models"
)

var formMessages = map[string]string{
	"name.required":     "O nome é obrigatório.",
	"email.required":    "Email é obrigatório.",
	"email.contains":    "Email parece inválido.",
	"role.required":     "Cargo é obrigatório.",
	"role.oneof":        "Cargo é obrigatório.",
	"password.required": "A senha é obrigatória ao criar um usuário.",
}

// Form is the user editor state. Role defaults to STUDENT for new users.
type Form struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,contains=@"`
	Role     models.Role `json:"role" validate:"required,oneof=PROFESSOR STUDENT"`
	Password string      `json:"password"`
}

type createForm struct {
	Form
	Password string `json:"password" validate:"required"`
}

// NewForm returns an empty editor for a new account.
func NewForm() Form {
	return Form{Role: models.RoleStudent}
}

// FormFromUser prefills the editor; the password is never prefilled.
func FormFromUser(u models.User) Form {
	return Form{Name: u.Name, Email: u.Email, Role: u.Role}
}

func (f Form) trimmed() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Password = strings.TrimSpace(f.Password)
	return f
}

// CreateRequest validates the form for a new account, which needs a password.
func (f Form) CreateRequest() (models.CreateUserRequest, error) {
	f = f.trimmed()
	if err := models.Validate(createForm{Form: f, Password: f.Password}, formMessages); err != nil {
		return models.CreateUserRequest{}, err
	}
	return models.CreateUserRequest{Name: f.Name, Email: f.Email, Password: f.Password, Role: f.Role}, nil
}

// UpdateRequest validates the form for an existing account; an empty
// password leaves the current one unchanged.
func (f Form) UpdateRequest() (models.UpdateUserRequest, error) {
	f = f.trimmed()
	if err := models.Validate(f, formMessages); err != nil {
		return models.UpdateUserRequest{}, err
	}
	return models.UpdateUserRequest{Name: f.Name, Email: f.Email, Role: f.Role, Password: f.Password}, nil
}
