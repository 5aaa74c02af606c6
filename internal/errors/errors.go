// errors стандартизирует ответы об ошибках HTTP-слоя gift-service.
// На вход принимает ошибку сервиса или декодера запроса, на выход даёт:
//   - HTTP-статус;
//   - тело {"error": message} без внутренних префиксов op.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/go-gift-service/internal/service"
	"github.com/pribylovaa/go-gift-service/internal/validation"
)

// ErrMalformedRequest — тело запроса не разбирается как ожидаемый JSON.
var ErrMalformedRequest = stderrors.New("malformed request")

// MalformedError — ошибка разбора запроса с безопасным сообщением.
type MalformedError struct {
	Msg string
}

func (e *MalformedError) Error() string { return e.Msg }

func (e *MalformedError) Unwrap() error { return ErrMalformedRequest }

// Malformed создаёт ошибку разбора запроса с сообщением msg.
func Malformed(msg string) error {
	return &MalformedError{Msg: msg}
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и тело ответа.
//
// Поведение:
//   - err == nil считается программной ошибкой вызова: 500;
//   - ErrMalformedRequest -> 400 с сообщением разбора;
//   - service.ErrInvalidArgument / validation.ErrIncorrectData -> 400 с сообщением валидации;
//   - service.ErrNotFound -> 404 "not found";
//   - *service.Error -> 500 с сообщением первопричины;
//   - прочее -> 500 "internal error".
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: "internal error"}
	}

	var (
		merr *MalformedError
		serr *service.Error
	)
	switch {
	case stderrors.As(err, &merr):
		return http.StatusBadRequest, ErrorResponse{Error: merr.Msg}
	case stderrors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest, ErrorResponse{Error: "malformed request"}
	case stderrors.Is(err, service.ErrInvalidArgument), stderrors.Is(err, validation.ErrIncorrectData):
		msg, ok := validation.Message(err)
		if !ok {
			msg = "invalid argument"
		}

		return http.StatusBadRequest, ErrorResponse{Error: msg}
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not found"}
	case stderrors.As(err, &serr) && serr.Msg != "":
		return http.StatusInternalServerError, ErrorResponse{Error: serr.Msg}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal error"}
	}
}

// WriteError — хелпер для HTTP-хендлеров: пишет статус и тело ошибки.
func WriteError(w http.ResponseWriter, err error) {
	status, resp := ToHTTP(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
