package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/pkg/birthdate"
	"github.com/pribylovaa/go-gift-service/internal/storage"
)

// citizenColumns — единый список колонок жителя (с агрегированными relatives),
// используемый во всех SELECT, чтобы гарантировать одинаковый порядок сканирования.
const citizenColumns = `
c.citizen_id, c.town, c.street, c.building, c.apartment, c.name, c.birth_date, c.gender,
COALESCE(array_agg(r.relative_id ORDER BY r.relative_id) FILTER (WHERE r.relative_id IS NOT NULL), '{}'::BIGINT[])
`

const citizenFrom = `
FROM citizens c
LEFT JOIN relations r ON r.import_id = c.import_id AND r.citizen_id = c.citizen_id
`

// scanCitizen сканирует одну строку жителя в доменную модель
// (DATE -> birthdate.Date, TEXT -> models.Gender).
func scanCitizen(row pgx.Row) (*models.Citizen, error) {
	var c models.Citizen
	var born time.Time
	var gender string

	if err := row.Scan(
		&c.ID,
		&c.Town,
		&c.Street,
		&c.Building,
		&c.Apartment,
		&c.Name,
		&born,
		&gender,
		&c.Relatives,
	); err != nil {
		return nil, err
	}

	c.BirthDate = birthdate.FromTime(born)

	g, ok := models.ParseGender(gender)
	if !ok {
		return nil, fmt.Errorf("unexpected gender %q", gender)
	}
	c.Gender = g

	if c.Relatives == nil {
		c.Relatives = []int64{}
	}

	return &c, nil
}

// CitizenExists — есть ли житель в выгрузке.
func (s *Storage) CitizenExists(ctx context.Context, importID, citizenID int64) (bool, error) {
	const op = "storage/postgres/citizens/CitizenExists"

	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM citizens WHERE import_id = $1 AND citizen_id = $2)`,
		importID, citizenID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

// CitizenIDs возвращает множество id жителей выгрузки.
// Ошибки: storage.ErrNotFound, если выгрузки нет.
func (s *Storage) CitizenIDs(ctx context.Context, importID int64) (map[int64]struct{}, error) {
	const op = "storage/postgres/citizens/CitizenIDs"

	// LEFT JOIN даёт одну строку с NULL для пустой выгрузки и ноль строк для отсутствующей.
	rows, err := s.db.Query(ctx, `
	SELECT c.citizen_id
	FROM imports i
	LEFT JOIN citizens c ON c.import_id = i.id
	WHERE i.id = $1 AND i.posted
	`, importID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var found bool
	ids := make(map[int64]struct{})
	for rows.Next() {
		found = true

		var id *int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		if id != nil {
			ids[*id] = struct{}{}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	if !found {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return ids, nil
}

// CitizenByID возвращает жителя со списком родственников.
// Ошибки: storage.ErrNotFound при отсутствии записи.
func (s *Storage) CitizenByID(ctx context.Context, importID, citizenID int64) (*models.Citizen, error) {
	const op = "storage/postgres/citizens/CitizenByID"

	c, err := scanCitizen(s.db.QueryRow(ctx, selectCitizenQuery, importID, citizenID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

const selectCitizenQuery = `SELECT ` + citizenColumns + citizenFrom + `
WHERE c.import_id = $1 AND c.citizen_id = $2
GROUP BY c.import_id, c.citizen_id`

// Citizens возвращает всех жителей выгрузки по возрастанию citizen_id.
// Ошибки: storage.ErrNotFound, если выгрузки нет.
func (s *Storage) Citizens(ctx context.Context, importID int64) ([]models.Citizen, error) {
	const op = "storage/postgres/citizens/Citizens"

	rows, err := s.db.Query(ctx, `SELECT `+citizenColumns+citizenFrom+`
	WHERE c.import_id = $1
	GROUP BY c.import_id, c.citizen_id
	ORDER BY c.citizen_id
	`, importID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Citizen, 0)
	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		out = append(out, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	if len(out) == 0 {
		if err := s.ensureImport(ctx, importID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return out, nil
}

// Relations возвращает все рёбра выгрузки в порядке (citizen_id, relative_id).
// Ошибки: storage.ErrNotFound, если выгрузки нет.
func (s *Storage) Relations(ctx context.Context, importID int64) ([]models.Relation, error) {
	const op = "storage/postgres/citizens/Relations"

	rows, err := s.db.Query(ctx, `
	SELECT citizen_id, relative_id
	FROM relations
	WHERE import_id = $1
	ORDER BY citizen_id, relative_id
	`, importID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Relation, 0)
	for rows.Next() {
		var r models.Relation
		if err := rows.Scan(&r.CitizenID, &r.RelativeID); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	if len(out) == 0 {
		if err := s.ensureImport(ctx, importID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return out, nil
}

// UpdateCitizen выполняет частичный апдейт жителя одной транзакцией:
// поля (updateCitizenFields), при patch.Relatives != nil — замена связей
// (replaceCitizenEdges), затем чтение свежего состояния.
// Ошибки: storage.ErrNotFound при отсутствии жителя или родственника.
func (s *Storage) UpdateCitizen(ctx context.Context, importID, citizenID int64, patch models.CitizenPatch) (*models.Citizen, error) {
	const op = "storage/postgres/citizens/UpdateCitizen"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	// Замены связей внутри одной выгрузки сериализуются блокировкой строки imports.
	if patch.Relatives != nil {
		if _, err := tx.Exec(ctx, `SELECT 1 FROM imports WHERE id = $1 FOR UPDATE`, importID); err != nil {
			return nil, fmt.Errorf("%s: lock import: %w", op, err)
		}
	}

	if err := updateCitizenFields(ctx, tx, importID, citizenID, patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if patch.Relatives != nil {
		if err := replaceCitizenEdges(ctx, tx, importID, citizenID, *patch.Relatives); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	c, err := scanCitizen(tx.QueryRow(ctx, selectCitizenQuery, importID, citizenID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: read back: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return c, nil
}

// updateCitizenFields обновляет только поля, заданные непустыми указателями.
// Без полей строка жителя блокируется FOR UPDATE, чтобы проверить существование
// и упорядочить конкурентные патчи одного жителя.
func updateCitizenFields(ctx context.Context, tx pgx.Tx, importID, citizenID int64, patch models.CitizenPatch) error {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 9)
	count := 0

	add := func(column string, value any) {
		count++
		sets = append(sets, fmt.Sprintf("%s = $%d", column, count))
		args = append(args, value)
	}

	if patch.Town != nil {
		add("town", *patch.Town)
	}
	if patch.Street != nil {
		add("street", *patch.Street)
	}
	if patch.Building != nil {
		add("building", *patch.Building)
	}
	if patch.Apartment != nil {
		add("apartment", *patch.Apartment)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.BirthDate != nil {
		add("birth_date", patch.BirthDate.Time())
	}
	if patch.Gender != nil {
		add("gender", patch.Gender.String())
	}

	var q string
	if len(sets) == 0 {
		q = `SELECT 1 FROM citizens WHERE import_id = $1 AND citizen_id = $2 FOR UPDATE`
	} else {
		q = fmt.Sprintf(`UPDATE citizens SET %s WHERE import_id = $%d AND citizen_id = $%d`,
			strings.Join(sets, ", "), count+1, count+2)
	}
	args = append(args, importID, citizenID)

	tag, err := tx.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update fields: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// replaceCitizenEdges удаляет все рёбра, касающиеся citizenID (в обе стороны),
// и вставляет (citizenID, j) и, кроме петли, (j, citizenID) для каждого j.
func replaceCitizenEdges(ctx context.Context, tx pgx.Tx, importID, citizenID int64, relatives []int64) error {
	const insert = `INSERT INTO relations (import_id, citizen_id, relative_id) VALUES ($1, $2, $3)`

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM relations WHERE import_id = $1 AND (citizen_id = $2 OR relative_id = $2)`, importID, citizenID)
	for _, j := range relatives {
		batch.Queue(insert, importID, citizenID, j)
		if j != citizenID {
			batch.Queue(insert, importID, j, citizenID)
		}
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("replace edges: batch item %d: %w", i, classify(err))
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("replace edges: %w", err)
	}

	return nil
}
