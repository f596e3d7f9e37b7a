// Package export serializes snapshot rows into downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/igfollow/snapshot-service/internal/model"
)

// WriteCSV serializes rows with a "username,full_name" header.
func WriteCSV(rows []model.SnapshotRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"username", "full_name"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Username, fullName(row)}); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename builds "<username>-<type>-<timestamp>.<ext>" for the download.
func Filename(username, snapshotType, extension string) string {
	timestamp := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s-%s-%s.%s", username, snapshotType, timestamp, extension)
}

func fullName(row model.SnapshotRow) string {
	if row.FullName == nil {
		return ""
	}
	return *row.FullName
}
