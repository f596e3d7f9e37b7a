package handler

import (
	"errors"
	"net/http"

	"github.com/igfollow/snapshot-service/internal/service"
)

var (
	errNoToken          = errors.New("there is no token")
	errInvalidJWT       = errors.New("invalid jwt")
	errInvalidUserID    = errors.New("invalid user ID")
	errInvalidAccountID = errors.New("invalid account ID")
	errNoSnapshotFile   = errors.New("please select an export file to upload")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAccountAlreadyTracked):
		return http.StatusConflict
	case errors.Is(err, service.ErrExportLimitExceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, errInvalidAccountID),
		errors.Is(err, errNoSnapshotFile),
		errors.Is(err, service.ErrInvalidSnapshotType),
		errors.Is(err, service.ErrInvalidExportFormat),
		errors.Is(err, service.ErrEmptyUpload),
		errors.Is(err, service.ErrInvalidExportToken),
		errors.Is(err, service.ErrUsernameRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
