// validation — проверки входных данных выгрузки и графа родственных связей.
//
// fields.go — поля одного жителя (полная форма для выгрузки, частичная для PATCH).
// relations.go — симметричность и ссылочная целостность связей.
package validation

import (
	"errors"
	"fmt"
)

// ErrIncorrectData — данные не прошли валидацию.
var ErrIncorrectData = errors.New("incorrect data")

// Error — ошибка валидации с безопасным человекочитаемым сообщением.
// errors.Is(err, ErrIncorrectData) == true.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return ErrIncorrectData }

func errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Message возвращает текст ошибки валидации из цепочки err.
func Message(err error) (string, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Msg, true
	}

	return "", false
}
