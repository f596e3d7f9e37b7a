package model

import (
	"time"

	"github.com/google/uuid"
)

type TrackedAccount struct {
	ID                uuid.UUID `json:"id"`
	OwnerID           uuid.UUID `json:"owner_id"`
	InstagramUsername string    `json:"instagram_username"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}
