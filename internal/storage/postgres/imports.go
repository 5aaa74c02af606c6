package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/storage"
)

var (
	citizensCopyColumns = []string{
		"import_id", "citizen_id", "town", "street", "building", "apartment", "name", "birth_date", "gender",
	}
	relationsCopyColumns = []string{"import_id", "citizen_id", "relative_id"}
)

// AllocateImportID берёт следующее значение import_id_seq.
func (s *Storage) AllocateImportID(ctx context.Context) (int64, error) {
	const op = "storage/postgres/imports/AllocateImportID"

	var id int64
	if err := s.db.QueryRow(ctx, `SELECT nextval('import_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// CreateImport сохраняет выгрузку одной транзакцией:
// строка imports -> COPY citizens -> COPY relations -> posted = true.
// Ошибки: storage.ErrAlreadyExists при повторе id, storage.ErrNotFound при ссылке на неизвестного жителя.
func (s *Storage) CreateImport(ctx context.Context, importID int64, citizens []models.Citizen) error {
	const op = "storage/postgres/imports/CreateImport"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if _, err := tx.Exec(ctx, `INSERT INTO imports (id) VALUES ($1)`, importID); err != nil {
		return fmt.Errorf("%s: insert import: %w", op, classify(err))
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"citizens"}, citizensCopyColumns,
		pgx.CopyFromSlice(len(citizens), func(i int) ([]any, error) {
			c := citizens[i]
			return []any{
				importID, c.ID, c.Town, c.Street, c.Building, c.Apartment, c.Name, c.BirthDate.Time(), c.Gender.String(),
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("%s: copy citizens: %w", op, classify(err))
	}

	var edges [][]any
	for _, c := range citizens {
		for _, r := range c.Relatives {
			edges = append(edges, []any{importID, c.ID, r})
		}
	}

	if len(edges) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"relations"}, relationsCopyColumns, pgx.CopyFromRows(edges)); err != nil {
			return fmt.Errorf("%s: copy relations: %w", op, classify(err))
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE imports SET posted = true WHERE id = $1`, importID); err != nil {
		return fmt.Errorf("%s: post import: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// RollbackImport удаляет выгрузку вместе с жителями и связями (ON DELETE CASCADE).
// Отсутствие выгрузки ошибкой не считается.
func (s *Storage) RollbackImport(ctx context.Context, importID int64) error {
	const op = "storage/postgres/imports/RollbackImport"

	if _, err := s.db.Exec(ctx, `DELETE FROM imports WHERE id = $1`, importID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ImportExists — есть ли опубликованная выгрузка.
func (s *Storage) ImportExists(ctx context.Context, importID int64) (bool, error) {
	const op = "storage/postgres/imports/ImportExists"

	var ok bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM imports WHERE id = $1 AND posted)`, importID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

// ensureImport возвращает storage.ErrNotFound, если выгрузки нет.
func (s *Storage) ensureImport(ctx context.Context, importID int64) error {
	ok, err := s.ImportExists(ctx, importID)
	if err != nil {
		return err
	}

	if !ok {
		return storage.ErrNotFound
	}

	return nil
}
