package session

import "github.com/guess-ai/backend/internal/models"

type SaveInput struct {
	Session *models.Session
}

type LoadInput struct {
	SessionID string
}

type FindIDByCodeInput struct {
	Code string
}

type CodeExistsInput struct {
	Code string
}

type DeleteInput struct {
	SessionID string
}

type GetActiveSessionsInput struct {
}

type GetActiveSessionsOutput struct {
	Sessions []*models.Session
}
