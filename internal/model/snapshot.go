package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	SnapshotTypeFollowers = "followers"
	SnapshotTypeFollowing = "following"
)

type Snapshot struct {
	ID           int64     `json:"id"`
	AccountID    uuid.UUID `json:"account_id"`
	SnapshotType string    `json:"snapshot_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// SnapshotRow is one parsed identity inside a snapshot. Username is always
// normalized (lowercase, no leading "@"); FullName and AvatarURL are
// best-effort metadata and may be nil.
type SnapshotRow struct {
	Username  string  `json:"username"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}
