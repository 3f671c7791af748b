package user

import "github.com/guess-ai/backend/internal/models"

type SaveUserInput struct {
	User *models.User
}

type GetUserInput struct {
	UserID string
}

type DisplayNameForInput struct {
	UserID string
}
