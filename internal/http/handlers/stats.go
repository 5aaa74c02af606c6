package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-gift-service/internal/errors"
	"github.com/pribylovaa/go-gift-service/internal/http/dto"
)

// Birthdays — GET /imports/{importId}/citizens/birthdays.
func (h *Handlers) Birthdays(w http.ResponseWriter, r *http.Request) {
	importID, err := pathID(r, "importId")
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	s, err := h.svc.Birthdays(r.Context(), importID)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeData(w, http.StatusOK, dto.FromBirthdays(s))
}

// TownAgePercentiles — GET /imports/{importId}/towns/stat/percentile/age.
func (h *Handlers) TownAgePercentiles(w http.ResponseWriter, r *http.Request) {
	importID, err := pathID(r, "importId")
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	s, err := h.svc.TownAgeStats(r.Context(), importID)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeData(w, http.StatusOK, dto.FromTownAgeStats(s))
}
