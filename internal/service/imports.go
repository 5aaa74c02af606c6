package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/storage"
	"github.com/pribylovaa/go-gift-service/internal/validation"
	"github.com/pribylovaa/go-gift-service/pkg/log"
)

// CreateImport сохраняет выгрузку и возвращает её id.
//
// Валидация:
//   - граф связей (validation.CheckImport), иначе ErrInvalidArgument с сообщением проверки.
//
// Поведение:
//   - id выдаёт хранилище, запись атомарна;
//   - при ошибке записи выполняется компенсирующий RollbackImport (его ошибка
//     только логируется), наружу отдаётся *Error с сообщением хранилища;
//   - после записи версия кэша выгрузки увеличивается: id могут повторяться
//     после рестарта (memory), и старые ответы под этим id не должны читаться.
func (s *Service) CreateImport(ctx context.Context, citizens []models.Citizen) (int64, error) {
	const op = "service/imports/CreateImport"

	lg := log.From(ctx).With("op", op, "citizens", len(citizens))

	if err := validation.CheckImport(citizens); err != nil {
		lg.Warn("import_rejected", "err", err)

		return 0, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	txCtx, cancel := s.detached(ctx)
	defer cancel()

	id, err := s.storage.AllocateImportID(txCtx)
	if err != nil {
		lg.Error("allocate_import_id_failed", "err", err)

		return 0, fmt.Errorf("%s: %w", op, internalError(err))
	}

	lg = lg.With("import_id", id)

	if err := s.storage.CreateImport(txCtx, id, citizens); err != nil {
		lg.Error("create_import_storage_error", "err", err)

		rbCtx, rbCancel := s.detached(ctx)
		defer rbCancel()

		if rbErr := s.storage.RollbackImport(rbCtx, id); rbErr != nil {
			lg.Error("rollback_import_failed", "err", rbErr)
		}

		return 0, fmt.Errorf("%s: %w", op, internalError(err))
	}

	s.invalidate(txCtx, lg, id)

	s.metrics.ImportCreated(len(citizens))
	lg.Info("import_created")

	return id, nil
}

// ensureImport — ErrNotFound, если выгрузки нет; ошибки хранилища -> ErrInternal.
func (s *Service) ensureImport(ctx context.Context, importID int64) error {
	ok, err := s.storage.ImportExists(ctx, importID)
	if err != nil {
		log.From(ctx).Error("import_exists_storage_error", "import_id", importID, "err", err)

		return internalError(err)
	}

	if !ok {
		return ErrNotFound
	}

	return nil
}

// mapStorageErr переводит ошибку чтения хранилища в ошибку сервиса.
func mapStorageErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}

	return internalError(err)
}

// invalidate сбрасывает кэш аналитики выгрузки. Одна повторная попытка;
// если и она не удалась, старые ответы живут не дольше TTL кэша.
func (s *Service) invalidate(ctx context.Context, lg *slog.Logger, importID int64) {
	err := s.cache.Invalidate(ctx, importID)
	if err == nil {
		return
	}

	lg.Warn("stats_cache_invalidate_failed", "err", err, "attempt", 1)

	if err := s.cache.Invalidate(ctx, importID); err != nil {
		lg.Error("stats_cache_invalidate_failed", "err", err, "attempt", 2)
	}
}
