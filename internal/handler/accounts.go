package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/igfollow/snapshot-service/internal/dto"
	"github.com/igfollow/snapshot-service/internal/model"
)

func (h *Handler) accountsCreate(owner *model.Owner, w http.ResponseWriter, r *http.Request) {
	var input dto.CreateTrackedAccount
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	account, err := h.services.Account.Create(r.Context(), owner.ID, input.Username, input.Notes)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	h.Respond(w, account, http.StatusCreated)
}

func (h *Handler) accountsList(owner *model.Owner, w http.ResponseWriter, r *http.Request) {
	accounts, err := h.services.Account.FindByOwner(r.Context(), owner.ID)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	h.Respond(w, accounts, http.StatusOK)
}

func (h *Handler) accountsGet(owner *model.Owner, w http.ResponseWriter, r *http.Request) {
	account, err := h.accountFromPath(owner, r)
	if err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	resp := Resp{"account": account}
	for _, snapshotType := range []string{model.SnapshotTypeFollowers, model.SnapshotTypeFollowing} {
		d, err := h.services.Snapshot.LatestDiff(r.Context(), account, snapshotType)
		if err != nil {
			// No snapshot yet simply means no diff to show.
			resp[snapshotType+"_diff"] = nil
			continue
		}
		resp[snapshotType+"_diff"] = d
	}

	h.Respond(w, resp, http.StatusOK)
}

func (h *Handler) accountsDelete(owner *model.Owner, w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.PathValue("accountId"))
	if err != nil {
		h.Respond(w, Resp{"error": errInvalidAccountID.Error()}, http.StatusBadRequest)
		return
	}

	if err := h.services.Account.DeleteByID(r.Context(), owner.ID, accountID); err != nil {
		h.Respond(w, Resp{"error": err.Error()}, statusFor(err))
		return
	}

	h.Respond(w, Resp{}, http.StatusOK)
}

func (h *Handler) accountFromPath(owner *model.Owner, r *http.Request) (*model.TrackedAccount, error) {
	accountID, err := uuid.Parse(r.PathValue("accountId"))
	if err != nil {
		return nil, errInvalidAccountID
	}

	return h.services.Account.FindByID(r.Context(), owner.ID, accountID)
}
