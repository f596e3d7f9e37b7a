package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/igfollow/snapshot-service/internal/service"
)

type Resp map[string]interface{}

type Handler struct {
	services *service.Service
	upgrader websocket.Upgrader
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
		upgrader: websocket.Upgrader{
			ReadBufferSize: 1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/accounts", h.authorized(h.accountsCreate))
	mux.HandleFunc("GET /api/v1/accounts", h.authorized(h.accountsList))
	mux.HandleFunc("GET /api/v1/accounts/{accountId}", h.authorized(h.accountsGet))
	mux.HandleFunc("DELETE /api/v1/accounts/{accountId}", h.authorized(h.accountsDelete))

	mux.HandleFunc("POST /api/v1/accounts/{accountId}/snapshots", h.authorized(h.snapshotsUpload))
	mux.HandleFunc("GET /api/v1/accounts/{accountId}/diff", h.authorized(h.snapshotsDiff))
	mux.HandleFunc("POST /api/v1/accounts/{accountId}/export", h.authorized(h.snapshotsExport))
	mux.HandleFunc("GET /api/v1/accounts/{accountId}/export/download", h.authorized(h.snapshotsExportDownload))

	mux.HandleFunc("GET /api/v1/ws", h.authorized(h.wsConnect))

	return mux
}

func (h *Handler) authorized(next func(owner *model.Owner, w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := h.authMiddleware(r)
		if err != nil {
			h.Respond(w, Resp{"error": err.Error()}, http.StatusUnauthorized)
			return
		}

		next(owner, w, r)
	}
}

func (h *Handler) Respond(w http.ResponseWriter, resp any, statusCode int) {
	respJSON, _ := json.Marshal(resp)
	w.WriteHeader(statusCode)
	w.Write(respJSON)
}
