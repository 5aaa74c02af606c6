// service содержит бизнес-логику gift-service:
// - создание выгрузки (проверка графа связей, выдача id, атомарная запись);
// - частичное обновление жителя с заменой связей;
// - чтение жителей и аналитики (через кэш).
package service

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/go-gift-service/internal/cache"
	"github.com/pribylovaa/go-gift-service/internal/config"
	"github.com/pribylovaa/go-gift-service/internal/metrics"
	"github.com/pribylovaa/go-gift-service/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные (валидация, связи).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — выгрузка или житель не найдены.
	ErrNotFound = errors.New("not found")
	// ErrInternal — внутренняя ошибка сервиса.
	ErrInternal = errors.New("internal")
)

// Error — внутренняя ошибка с сообщением первопричины (без цепочки op).
// Сопоставляется с ErrInternal через errors.Is.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return ErrInternal }

// internalError оборачивает ошибку хранилища в *Error.
// Сообщение берётся у самой глубокой ошибки цепочки: префиксы op
// добавляются обёртками и наружу не попадают.
func internalError(err error) error {
	root := err
	for {
		next := errors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}

	msg := root.Error()
	if msg == "" {
		msg = "internal error"
	}

	return &Error{Msg: msg}
}

// Service — описывает бизнес-логику gift-service.
type Service struct {
	storage   storage.Storage
	cache     cache.StatsCache
	metrics   *metrics.Metrics
	txTimeout time.Duration
	now       func() time.Time
	flight    singleflight.Group
}

// New создает новый экземпляр Service. c == nil выключает кэш,
// m == nil пишет метрики в отдельный незарегистрированный Registry.
func New(st storage.Storage, c cache.StatsCache, m *metrics.Metrics, cfg *config.Config) *Service {
	if c == nil {
		c = cache.NewNop()
	}
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}

	return &Service{
		storage:   st,
		cache:     c,
		metrics:   m,
		txTimeout: cfg.Timeouts.Tx,
		now:       time.Now,
	}
}

// Now — текущий момент по часам сервиса (валидация дат, возраст).
func (s *Service) Now() time.Time { return s.now() }

// Ping проверяет готовность хранилища.
func (s *Service) Ping(ctx context.Context) error { return s.storage.Ping(ctx) }

// detached отвязывает пишущую операцию от отмены клиентом:
// начатая транзакция доводится до commit/rollback в пределах txTimeout.
func (s *Service) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.txTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.txTimeout)
}
