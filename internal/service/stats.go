package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pribylovaa/go-gift-service/internal/cache"
	"github.com/pribylovaa/go-gift-service/internal/metrics"
	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/pkg/birthdate"
	"github.com/pribylovaa/go-gift-service/internal/stats"
	"github.com/pribylovaa/go-gift-service/pkg/log"
)

// Birthdays возвращает число подарков по месяцам для каждого жителя выгрузки.
func (s *Service) Birthdays(ctx context.Context, importID int64) (models.BirthdayStats, error) {
	const op = "service/stats/Birthdays"

	lg := log.From(ctx).With("op", op, "import_id", importID)

	if err := s.ensureImport(ctx, importID); err != nil {
		return models.BirthdayStats{}, fmt.Errorf("%s: %w", op, err)
	}

	out, err := cached(ctx, s, lg, importID, cache.KindBirthdays, "birthdays", func(ctx context.Context) (models.BirthdayStats, error) {
		citizens, err := s.storage.Citizens(ctx, importID)
		if err != nil {
			return models.BirthdayStats{}, err
		}

		relations, err := s.storage.Relations(ctx, importID)
		if err != nil {
			return models.BirthdayStats{}, err
		}

		return stats.Birthdays(citizens, relations), nil
	})
	if err != nil {
		lg.Error("birthdays_storage_error", "err", err)

		return models.BirthdayStats{}, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return out, nil
}

// TownAgeStats возвращает перцентили возраста по городам на текущую UTC-дату.
func (s *Service) TownAgeStats(ctx context.Context, importID int64) ([]models.TownAgeStat, error) {
	const op = "service/stats/TownAgeStats"

	lg := log.From(ctx).With("op", op, "import_id", importID)

	if err := s.ensureImport(ctx, importID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	today := birthdate.FromTime(s.now())

	out, err := cached(ctx, s, lg, importID, cache.KindAges(today.Internal()), "ages", func(ctx context.Context) ([]models.TownAgeStat, error) {
		citizens, err := s.storage.Citizens(ctx, importID)
		if err != nil {
			return nil, err
		}

		return stats.TownAges(citizens, today), nil
	})
	if err != nil {
		lg.Error("town_ages_storage_error", "err", err)

		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return out, nil
}

// cached читает агрегат из кэша или считает его через compute.
// Версия выгрузки берётся до чтения БД; одновременные промахи по одной
// (выгрузка, версия, вид) схлопываются в один расчёт.
// Ошибки кэша не прерывают запрос: агрегат просто пересчитывается.
func cached[T any](ctx context.Context, s *Service, lg *slog.Logger, importID int64, kind, label string, compute func(context.Context) (T, error)) (T, error) {
	version, err := s.cache.Version(ctx, importID)
	if err != nil {
		lg.Warn("stats_cache_version_failed", "err", err)
		s.metrics.CacheLookup(label, metrics.CacheError)

		return compute(ctx)
	}

	payload, ok, err := s.cache.Get(ctx, importID, version, kind)
	switch {
	case err != nil:
		lg.Warn("stats_cache_get_failed", "err", err)
		s.metrics.CacheLookup(label, metrics.CacheError)
	case ok:
		var v T
		uerr := json.Unmarshal(payload, &v)
		if uerr == nil {
			s.metrics.CacheLookup(label, metrics.CacheHit)
			return v, nil
		}

		lg.Warn("stats_cache_payload_corrupted", "err", uerr)
		s.metrics.CacheLookup(label, metrics.CacheError)
	default:
		s.metrics.CacheLookup(label, metrics.CacheMiss)
	}

	key := strconv.FormatInt(importID, 10) + ":" + strconv.FormatInt(version, 10) + ":" + kind

	v, err, _ := s.flight.Do(key, func() (any, error) {
		// Общий расчёт не должен падать из-за отмены запроса, запустившего его.
		fctx, cancel := s.detached(ctx)
		defer cancel()

		val, err := compute(fctx)
		if err != nil {
			return val, err
		}

		if b, merr := json.Marshal(val); merr == nil {
			if serr := s.cache.Set(fctx, importID, version, kind, b); serr != nil {
				lg.Warn("stats_cache_set_failed", "err", serr)
			}
		}

		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}
