package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-gift-service/internal/errors"
	"github.com/pribylovaa/go-gift-service/internal/http/dto"
	"github.com/pribylovaa/go-gift-service/internal/service"
)

// Handlers агрегирует зависимости HTTP-обработчиков.
type Handlers struct {
	svc          *service.Service
	maxBodyBytes int64
}

// New создаёт обработчики; maxBodyBytes <= 0 снимает ограничение тела.
func New(svc *service.Service, maxBodyBytes int64) *Handlers {
	return &Handlers{svc: svc, maxBodyBytes: maxBodyBytes}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeData оборачивает value в {"data": ...}.
func writeData(w http.ResponseWriter, status int, value any) {
	writeJSON(w, status, dto.Envelope{Data: value})
}

// decodeStrict — строгий JSON-декодер: неизвестные поля и данные после
// JSON-значения запрещены; слишком большое тело тоже ошибка разбора.
func (h *Handlers) decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		return malformed(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return apierrors.Malformed("request body must contain a single JSON value")
		}

		return malformed(err)
	}

	return nil
}

func malformed(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return apierrors.Malformed("request body too large")
	case errors.Is(err, io.EOF):
		return apierrors.Malformed("request body is empty")
	default:
		return apierrors.Malformed("invalid JSON body")
	}
}

// pathID разбирает неотрицательный десятичный id из пути.
// Всё остальное ("wrong_5", "-1", "+1", переполнение) — ресурса быть не может: 404.
func pathID(r *http.Request, name string) (int64, error) {
	s := chi.URLParam(r, name)
	if s == "" || len(s) > 19 {
		return 0, service.ErrNotFound
	}

	var id int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, service.ErrNotFound
		}

		d := int64(c - '0')
		if id > (1<<63-1-d)/10 {
			return 0, service.ErrNotFound
		}
		id = id*10 + d
	}

	return id, nil
}
