package service

import (
	"strings"

	"github.com/igfollow/snapshot-service/internal/model"
)

const (
	EXPORT_FORMAT_CSV = "csv"
	EXPORT_FORMAT_XLSX = "xlsx"
)

// ValidateSnapshotType canonicalizes a caller-supplied type tag and rejects
// anything that isn't "followers" or "following".
func ValidateSnapshotType(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized != model.SnapshotTypeFollowers && normalized != model.SnapshotTypeFollowing {
		return "", ErrInvalidSnapshotType
	}
	return normalized, nil
}

func ValidateExportFormat(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized != EXPORT_FORMAT_CSV && normalized != EXPORT_FORMAT_XLSX {
		return "", ErrInvalidExportFormat
	}
	return normalized, nil
}
