package handler

import (
	"net/http"

	"github.com/igfollow/snapshot-service/internal/model"
)

// wsConnect upgrades the request and registers the connection for diff
// delivery after ingests.
func (h *Handler) wsConnect(owner *model.Owner, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.services.Snapshot.RegisterConnection(owner.ID, conn)
}
