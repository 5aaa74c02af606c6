// storage содержит контракт хранилища выгрузок gift-service.
//
// Реализации:
//   - postgres — основная (pgxpool, последовательность import_id_seq);
//   - memory — для локального запуска и тестов.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-gift-service/internal/models"
)

var (
	// ErrNotFound — выгрузка или житель не найдены.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — конфликт первичного ключа (повтор id выгрузки/жителя/связи).
	ErrAlreadyExists = errors.New("already exists")
)

// Imports — запись и чтение выгрузок.
type Imports interface {
	// AllocateImportID выдаёт новый уникальный id выгрузки.
	AllocateImportID(ctx context.Context) (int64, error)
	// CreateImport атомарно сохраняет жителей и связи под выданным id.
	// Выгрузка становится видимой только после успешного завершения.
	CreateImport(ctx context.Context, importID int64, citizens []models.Citizen) error
	// RollbackImport удаляет всё, что могло остаться под importID.
	// Если ничего не записано — nil.
	RollbackImport(ctx context.Context, importID int64) error
	// ImportExists — есть ли завершённая выгрузка.
	ImportExists(ctx context.Context, importID int64) (bool, error)
}

// Citizens — чтение и обновление жителей выгрузки.
type Citizens interface {
	CitizenExists(ctx context.Context, importID, citizenID int64) (bool, error)
	// CitizenIDs — множество id жителей выгрузки.
	CitizenIDs(ctx context.Context, importID int64) (map[int64]struct{}, error)
	// CitizenByID — житель со списком родственников; ErrNotFound, если его нет.
	CitizenByID(ctx context.Context, importID, citizenID int64) (*models.Citizen, error)
	// Citizens — все жители по возрастанию id, relatives по возрастанию.
	Citizens(ctx context.Context, importID int64) ([]models.Citizen, error)
	// Relations — все рёбра выгрузки в порядке (citizen_id, relative_id).
	Relations(ctx context.Context, importID int64) ([]models.Relation, error)
	// UpdateCitizen в одной транзакции применяет patch, при patch.Relatives != nil
	// заменяет все рёбра жителя (в обе стороны) и возвращает свежее состояние.
	UpdateCitizen(ctx context.Context, importID, citizenID int64, patch models.CitizenPatch) (*models.Citizen, error)
}

// Storage — верхнеуровневый интерфейс хранилища.
type Storage interface {
	Imports
	Citizens
	// Ping проверяет доступность хранилища (для /healthz).
	Ping(ctx context.Context) error
	Close()
}
