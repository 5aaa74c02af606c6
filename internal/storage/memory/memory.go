// memory предоставляет реализацию storage.Storage в памяти процесса.
// Используется для локального запуска (storage.driver: memory) и e2e-тестов HTTP-слоя.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/pkg/birthdate"
	"github.com/pribylovaa/go-gift-service/internal/storage"
)

// row — житель без связей; дата хранится во внутреннем формате YYYY.MM.DD.
type row struct {
	town      string
	street    string
	building  string
	apartment int64
	name      string
	birthDate string
	gender    models.Gender
}

type importData struct {
	citizens map[int64]*row
	// edges[x][y] — ребро (x, y).
	edges map[int64]map[int64]struct{}
}

type Storage struct {
	mu      sync.RWMutex
	lastID  atomic.Int64
	imports map[int64]*importData
}

func New() *Storage {
	return &Storage{imports: make(map[int64]*importData)}
}

func (s *Storage) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Storage) Close() {}

func (s *Storage) AllocateImportID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return s.lastID.Add(1), nil
}

func (s *Storage) CreateImport(ctx context.Context, importID int64, citizens []models.Citizen) error {
	const op = "storage/memory/CreateImport"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data := &importData{
		citizens: make(map[int64]*row, len(citizens)),
		edges:    make(map[int64]map[int64]struct{}, len(citizens)),
	}

	for _, c := range citizens {
		if _, dup := data.citizens[c.ID]; dup {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		data.citizens[c.ID] = toRow(c)
		data.edges[c.ID] = make(map[int64]struct{}, len(c.Relatives))
	}

	for _, c := range citizens {
		for _, r := range c.Relatives {
			if _, ok := data.citizens[r]; !ok {
				return fmt.Errorf("%s: relative %d: %w", op, r, storage.ErrNotFound)
			}
			data.edges[c.ID][r] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.imports[importID]; exists {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}
	s.imports[importID] = data

	return nil
}

func (s *Storage) RollbackImport(_ context.Context, importID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.imports, importID)
	return nil
}

func (s *Storage) ImportExists(ctx context.Context, importID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.imports[importID]
	return ok, nil
}

func (s *Storage) CitizenExists(ctx context.Context, importID, citizenID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.imports[importID]
	if !ok {
		return false, nil
	}

	_, ok = data.citizens[citizenID]
	return ok, nil
}

func (s *Storage) CitizenIDs(ctx context.Context, importID int64) (map[int64]struct{}, error) {
	const op = "storage/memory/CitizenIDs"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.imports[importID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	ids := make(map[int64]struct{}, len(data.citizens))
	for id := range data.citizens {
		ids[id] = struct{}{}
	}

	return ids, nil
}

func (s *Storage) CitizenByID(ctx context.Context, importID, citizenID int64) (*models.Citizen, error) {
	const op = "storage/memory/CitizenByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.citizenLocked(importID, citizenID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *Storage) Citizens(ctx context.Context, importID int64) ([]models.Citizen, error) {
	const op = "storage/memory/Citizens"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.imports[importID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	ids := sortedKeys(data.citizens)
	out := make([]models.Citizen, 0, len(ids))
	for _, id := range ids {
		c, err := fromRow(id, data.citizens[id], data.edges[id])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}

	return out, nil
}

func (s *Storage) Relations(ctx context.Context, importID int64) ([]models.Relation, error) {
	const op = "storage/memory/Relations"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.imports[importID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var out []models.Relation
	for _, from := range sortedKeys(data.edges) {
		for _, to := range sortedKeys(data.edges[from]) {
			out = append(out, models.Relation{CitizenID: from, RelativeID: to})
		}
	}

	return out, nil
}

func (s *Storage) UpdateCitizen(ctx context.Context, importID, citizenID int64, patch models.CitizenPatch) (*models.Citizen, error) {
	const op = "storage/memory/UpdateCitizen"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.imports[importID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	r, ok := data.citizens[citizenID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if patch.Relatives != nil {
		for _, rel := range *patch.Relatives {
			if _, ok := data.citizens[rel]; !ok {
				return nil, fmt.Errorf("%s: relative %d: %w", op, rel, storage.ErrNotFound)
			}
		}
	}

	updated := *r
	applyPatch(&updated, patch)
	data.citizens[citizenID] = &updated

	if patch.Relatives != nil {
		replaceEdges(data, citizenID, *patch.Relatives)
	}

	c, err := fromRow(citizenID, data.citizens[citizenID], data.edges[citizenID])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (s *Storage) citizenLocked(importID, citizenID int64) (*models.Citizen, error) {
	data, ok := s.imports[importID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	r, ok := data.citizens[citizenID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	c, err := fromRow(citizenID, r, data.edges[citizenID])
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// replaceEdges удаляет все рёбра, касающиеся c, и добавляет (c, j) и (j, c) для новых j.
func replaceEdges(data *importData, c int64, relatives []int64) {
	for from, to := range data.edges {
		if from == c {
			continue
		}
		delete(to, c)
	}

	data.edges[c] = make(map[int64]struct{}, len(relatives))
	for _, j := range relatives {
		data.edges[c][j] = struct{}{}
		if j != c {
			data.edges[j][c] = struct{}{}
		}
	}
}

func applyPatch(r *row, p models.CitizenPatch) {
	if p.Town != nil {
		r.town = *p.Town
	}
	if p.Street != nil {
		r.street = *p.Street
	}
	if p.Building != nil {
		r.building = *p.Building
	}
	if p.Apartment != nil {
		r.apartment = *p.Apartment
	}
	if p.Name != nil {
		r.name = *p.Name
	}
	if p.BirthDate != nil {
		r.birthDate = p.BirthDate.Internal()
	}
	if p.Gender != nil {
		r.gender = *p.Gender
	}
}

func toRow(c models.Citizen) *row {
	return &row{
		town:      c.Town,
		street:    c.Street,
		building:  c.Building,
		apartment: c.Apartment,
		name:      c.Name,
		birthDate: c.BirthDate.Internal(),
		gender:    c.Gender,
	}
}

func fromRow(id int64, r *row, edges map[int64]struct{}) (models.Citizen, error) {
	bd, err := birthdate.ParseInternal(r.birthDate)
	if err != nil {
		return models.Citizen{}, err
	}

	return models.Citizen{
		ID:        id,
		Town:      r.town,
		Street:    r.street,
		Building:  r.building,
		Apartment: r.apartment,
		Name:      r.name,
		BirthDate: bd,
		Gender:    r.gender,
		Relatives: sortedKeys(edges),
	}, nil
}

// sortedKeys возвращает ключи по возрастанию; для пустой карты — пустой срез (не nil).
func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Storage = (*Storage)(nil)
