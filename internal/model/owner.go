package model

import "github.com/google/uuid"

// Owner is the authenticated user behind a request, resolved from JWT
// claims. Account and session management live in an external service.
type Owner struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	IsSubscribed bool      `json:"is_subscribed"`
}
