package model

import "github.com/google/uuid"

// DiffDelivery is pushed to an owner's websocket connection after an ingest.
type DiffDelivery struct {
	OwnerID      uuid.UUID `json:"-"`
	AccountID    uuid.UUID `json:"account_id"`
	SnapshotType string    `json:"snapshot_type"`
	Added        []string  `json:"added"`
	Removed      []string  `json:"removed"`
}
