package dto

type CreateTrackedAccount struct {
	Username string `json:"username" binding:"required,max=255"`
	Notes    string `json:"notes"`
}

type ExportSnapshot struct {
	SnapshotType string `json:"snapshot_type" binding:"required"`
	ExportFormat string `json:"export_format"`
}
