package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/igfollow/snapshot-service/internal/dto"
	"github.com/igfollow/snapshot-service/internal/model"
)

const maxUploadBytes = 32 << 20

func (h *Handler) snapshotsUpload(owner *model.Owner, w http.ResponseWriter, r *http.Request) {
	account, err := h.accountFromPath(owner, r)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("snapshot_file")
	if err != nil {
		h.Respond(w, Resp{"error": errNoSnapshotFile.Error()}, http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	snapshot, d, err := h.services.Snapshot.Ingest(r.Context(), *owner, account, r.FormValue("snapshot_type"), content, header.Filename)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	h.Respond(w, Resp{"snapshot": snapshot, "diff": d}, http.StatusCreated)
}

func (h *Handler) snapshotsDiff(owner *model.Owner, w http.ResponseWriter, r *http.Request) {
	account, err := h.accountFromPath(owner, r)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	d, err := h.services.Snapshot.LatestDiff(r.Context(), account, r.URL.Query().Get("snapshot_type"))
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	h.Respond(w, d, http.StatusOK)
}

// snapshotsExport answers with a signed, short-lived download URL; the actual
// file is streamed by snapshotsExportDownload.
func (h *Handler) snapshotsExport(owner *model.Owner, w http.ResponseWriter, r *http.Request) {
	account, err := h.accountFromPath(owner, r)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	var input dto.ExportSnapshot
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	snapshot, err := h.services.Snapshot.Latest(r.Context(), account, input.SnapshotType)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	token, err := h.services.Snapshot.CreateExportToken(snapshot, input.ExportFormat)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	downloadURL := fmt.Sprintf("/api/v1/accounts/%s/export/download?token=%s", account.ID.String(), url.QueryEscape(token))
	h.Respond(w, Resp{"download_url": downloadURL}, http.StatusOK)
}

func (h *Handler) snapshotsExportDownload(owner *model.Owner, w http.ResponseWriter, r *http.Request) {
	account, err := h.accountFromPath(owner, r)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		h.Respond(w, Resp{"error": errNoToken.Error()}, http.StatusBadRequest)
		return
	}

	file, err := h.services.Snapshot.ExportByToken(r.Context(), *owner, account, token)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}
