package service

import "errors"

var (
	ErrInternal = errors.New("internal server error")
	ErrInvalidSnapshotType = errors.New("snapshot type must be either 'followers' or 'following'")
	ErrInvalidExportFormat = errors.New("format must be CSV or XLSX")
	ErrEmptyUpload = errors.New("no rows were found in the uploaded file")
	ErrAccountNotFound = errors.New("tracked account not found")
	ErrSnapshotNotFound = errors.New("upload a snapshot before exporting")
	ErrAccountAlreadyTracked = errors.New("you are already tracking this account")
	ErrExportLimitExceeded = errors.New("upgrade required to export more profiles")
	ErrInvalidExportToken = errors.New("invalid or expired export token")
	ErrUsernameRequired = errors.New("instagram username is required")
)
