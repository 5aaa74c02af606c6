package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	apierrors "github.com/pribylovaa/go-gift-service/internal/errors"
	"github.com/pribylovaa/go-gift-service/internal/http/dto"
	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/validation"
)

// importRequest — тело POST /imports. Жители разбираются в сыром виде,
// чтобы валидация видела лишние, пропущенные и null-поля.
type importRequest struct {
	Citizens *[]map[string]json.RawMessage `json:"citizens"`
}

// CreateImport — POST /imports.
func (h *Handlers) CreateImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := h.decodeStrict(w, r, &req); err != nil {
		apierrors.WriteError(w, err)
		return
	}

	if req.Citizens == nil {
		apierrors.WriteError(w, apierrors.Malformed(`field "citizens" is required`))
		return
	}

	now := h.svc.Now()
	citizens := make([]models.Citizen, 0, len(*req.Citizens))
	for i, raw := range *req.Citizens {
		c, err := validation.Citizen(raw, now)
		if err != nil {
			apierrors.WriteError(w, fmt.Errorf("citizens[%d]: %w", i, err))
			return
		}
		citizens = append(citizens, c)
	}

	id, err := h.svc.CreateImport(r.Context(), citizens)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeData(w, http.StatusCreated, dto.ImportCreated{ImportID: id})
}
