package handlers

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/pribylovaa/go-gift-service/internal/errors"
	"github.com/pribylovaa/go-gift-service/internal/http/dto"
	"github.com/pribylovaa/go-gift-service/internal/validation"
)

// PatchCitizen — PATCH /imports/{importId}/citizens/{citizenId}.
func (h *Handlers) PatchCitizen(w http.ResponseWriter, r *http.Request) {
	importID, err := pathID(r, "importId")
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	citizenID, err := pathID(r, "citizenId")
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	var raw map[string]json.RawMessage
	if err := h.decodeStrict(w, r, &raw); err != nil {
		apierrors.WriteError(w, err)
		return
	}

	if raw == nil {
		apierrors.WriteError(w, apierrors.Malformed("request body must be a JSON object"))
		return
	}

	patch, err := validation.Patch(raw, h.svc.Now())
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	c, err := h.svc.PatchCitizen(r.Context(), importID, citizenID, patch)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeData(w, http.StatusOK, dto.FromCitizen(*c))
}

// ListCitizens — GET /imports/{importId}/citizens.
func (h *Handlers) ListCitizens(w http.ResponseWriter, r *http.Request) {
	importID, err := pathID(r, "importId")
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	cs, err := h.svc.Citizens(r.Context(), importID)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeData(w, http.StatusOK, dto.FromCitizens(cs))
}
