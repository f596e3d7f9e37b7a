package dto

import "github.com/google/uuid"

type MQSyncRow struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"profile_pic_url"`
}

type MQSyncCompleted struct {
	AccountID    uuid.UUID   `json:"account_id"`
	SnapshotType string      `json:"snapshot_type"`
	Rows         []MQSyncRow `json:"rows"`
}

type MQDiffSummary struct {
	Email             string `json:"email"`
	InstagramUsername string `json:"instagram_username"`
	SnapshotType      string `json:"snapshot_type"`
	Added             int    `json:"added"`
	Removed           int    `json:"removed"`
}
