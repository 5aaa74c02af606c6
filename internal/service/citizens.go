package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/storage"
	"github.com/pribylovaa/go-gift-service/internal/validation"
	"github.com/pribylovaa/go-gift-service/pkg/log"
)

// PatchCitizen частично обновляет жителя и возвращает его новое состояние.
//
// Поведение:
//   - нет выгрузки или жителя -> ErrNotFound;
//   - при замене relatives каждый id должен быть жителем выгрузки (кроме собственного),
//     иначе ErrInvalidArgument с сообщением "Wrong relations: [...]" до любых изменений;
//   - пустой патч возвращает текущее состояние без записи;
//   - ошибка записи отдаётся как *Error с сообщением хранилища;
//   - после записи кэш аналитики выгрузки инвалидируется (с одним повтором,
//     ошибка кэша только логируется).
func (s *Service) PatchCitizen(ctx context.Context, importID, citizenID int64, patch models.CitizenPatch) (*models.Citizen, error) {
	const op = "service/citizens/PatchCitizen"

	lg := log.From(ctx).With("op", op, "import_id", importID, "citizen_id", citizenID)

	if err := s.ensureImport(ctx, importID); err != nil {
		if errors.Is(err, ErrNotFound) {
			lg.Warn("import_not_found")
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if patch.Relatives != nil {
		ids, err := s.storage.CitizenIDs(ctx, importID)
		if err != nil {
			lg.Error("citizen_ids_storage_error", "err", err)

			return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
		}

		if _, ok := ids[citizenID]; !ok {
			lg.Warn("citizen_not_found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		if err := validation.CheckRelatives(citizenID, *patch.Relatives, ids); err != nil {
			lg.Warn("patch_rejected", "err", err)

			return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
		}
	} else {
		ok, err := s.storage.CitizenExists(ctx, importID, citizenID)
		if err != nil {
			lg.Error("citizen_exists_storage_error", "err", err)

			return nil, fmt.Errorf("%s: %w", op, internalError(err))
		}

		if !ok {
			lg.Warn("citizen_not_found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
	}

	if patch.IsEmpty() {
		c, err := s.storage.CitizenByID(ctx, importID, citizenID)
		if err != nil {
			lg.Error("citizen_by_id_storage_error", "err", err)

			return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
		}

		return c, nil
	}

	txCtx, cancel := s.detached(ctx)
	defer cancel()

	c, err := s.storage.UpdateCitizen(txCtx, importID, citizenID, patch)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("patch_citizen_not_found", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("patch_citizen_storage_error", "err", err)

			return nil, fmt.Errorf("%s: %w", op, internalError(err))
		}
	}

	s.invalidate(txCtx, lg, importID)

	s.metrics.CitizenPatched()
	lg.Info("citizen_patched", "relatives_replaced", patch.Relatives != nil)

	return c, nil
}

// Citizens возвращает всех жителей выгрузки по возрастанию citizen_id.
func (s *Service) Citizens(ctx context.Context, importID int64) ([]models.Citizen, error) {
	const op = "service/citizens/Citizens"

	lg := log.From(ctx).With("op", op, "import_id", importID)

	if err := s.ensureImport(ctx, importID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := s.storage.Citizens(ctx, importID)
	if err != nil {
		lg.Error("citizens_storage_error", "err", err)

		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return out, nil
}
