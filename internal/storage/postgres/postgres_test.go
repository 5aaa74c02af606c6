package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pribylovaa/go-gift-service/internal/models"
	"github.com/pribylovaa/go-gift-service/internal/pkg/birthdate"
	"github.com/pribylovaa/go-gift-service/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты для пакета postgres:
// — поднимают реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// — применяют миграции из ./migrations;
// — проверяют:
//    AllocateImportID: уникальность при конкурентных вызовах;
//    CreateImport: сохранение жителей и связей, пустая выгрузка, ErrAlreadyExists при повторе id,
//    ErrNotFound при ссылке на неизвестного жителя и отсутствие «полувыгрузки»;
//    RollbackImport: каскадное удаление, no-op для отсутствующей выгрузки;
//    UpdateCitizen: частичный апдейт, no-op патч, замена связей в обе стороны, петли,
//    ErrNotFound для отсутствующего жителя;
//    поведение при истёкшем контексте.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — корень репозитория относительно файла тестов.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает SQL-миграцию из ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(repoRootFromThisFile(), "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает PostgreSQL, применяет миграции и возвращает хранилище.
// Если GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "docker.io/postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "gift"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	t.Logf("starting postgres container with image=%q", req.Image)
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		ProviderType:     tc.ProviderDocker,
	})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/gift?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "1_init_gift.up.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

func mkCitizen(id int64, relatives ...int64) models.Citizen {
	if relatives == nil {
		relatives = []int64{}
	}
	return models.Citizen{
		ID:        id,
		Town:      "Москва",
		Street:    "Льва Толстого",
		Building:  "16к7стр5",
		Apartment: 7,
		Name:      "Иванов Иван",
		BirthDate: birthdate.Date{Year: 1986, Month: time.December, Day: 26},
		Gender:    models.GenderMale,
		Relatives: relatives,
	}
}

func create(t *testing.T, st *Storage, citizens ...models.Citizen) int64 {
	t.Helper()
	ctx := context.Background()

	id, err := st.AllocateImportID(ctx)
	require.NoError(t, err)
	require.NoError(t, st.CreateImport(ctx, id, citizens))

	return id
}

func TestIntegration_AllocateImportID_Unique(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	const n = 20
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		ids = make(map[int64]struct{}, n)
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := st.AllocateImportID(context.Background())
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, ids, n)
}

func TestIntegration_CreateImport_And_Read(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	id := create(t, st, mkCitizen(2, 1), mkCitizen(1, 2, 1), mkCitizen(3))

	ok, err := st.ImportExists(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := st.Citizens(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []models.Citizen{mkCitizen(1, 1, 2), mkCitizen(2, 1), mkCitizen(3)}, got)

	one, err := st.CitizenByID(ctx, id, 2)
	require.NoError(t, err)
	require.Equal(t, mkCitizen(2, 1), *one)

	rels, err := st.Relations(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []models.Relation{
		{CitizenID: 1, RelativeID: 1},
		{CitizenID: 1, RelativeID: 2},
		{CitizenID: 2, RelativeID: 1},
	}, rels)

	ids, err := st.CitizenIDs(ctx, id)
	require.NoError(t, err)
	require.Equal(t, map[int64]struct{}{1: {}, 2: {}, 3: {}}, ids)

	exists, err := st.CitizenExists(ctx, id, 3)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestIntegration_CreateImport_Empty(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	id := create(t, st)

	got, err := st.Citizens(ctx, id)
	require.NoError(t, err)
	require.Empty(t, got)

	ids, err := st.CitizenIDs(ctx, id)
	require.NoError(t, err)
	require.Empty(t, ids)

	rels, err := st.Relations(ctx, id)
	require.NoError(t, err)
	require.Empty(t, rels)
}

func TestIntegration_CreateImport_AlreadyExists(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	id := create(t, st, mkCitizen(1))

	err := st.CreateImport(context.Background(), id, []models.Citizen{mkCitizen(1)})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_CreateImport_UnknownRelative_LeavesNothing(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	id, err := st.AllocateImportID(ctx)
	require.NoError(t, err)

	err = st.CreateImport(ctx, id, []models.Citizen{mkCitizen(1, 9)})
	require.ErrorIs(t, err, storage.ErrNotFound)

	ok, err := st.ImportExists(ctx, id)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = st.Citizens(ctx, id)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, st.RollbackImport(ctx, id))
}

func TestIntegration_RollbackImport(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	id := create(t, st, mkCitizen(1, 1))
	require.NoError(t, st.RollbackImport(ctx, id))

	ok, err := st.ImportExists(ctx, id)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = st.CitizenIDs(ctx, id)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_UpdateCitizen_Fields(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	id := create(t, st, mkCitizen(1, 2), mkCitizen(2, 1))

	town := "Керчь"
	apt := int64(0)
	bd := birthdate.Date{Year: 2001, Month: time.February, Day: 3}
	g := models.GenderFemale

	got, err := st.UpdateCitizen(ctx, id, 1, models.CitizenPatch{Town: &town, Apartment: &apt, BirthDate: &bd, Gender: &g})
	require.NoError(t, err)

	want := mkCitizen(1, 2)
	want.Town = town
	want.Apartment = 0
	want.BirthDate = bd
	want.Gender = g
	require.Equal(t, want, *got)

	// Пустой патч — текущее состояние.
	same, err := st.UpdateCitizen(ctx, id, 1, models.CitizenPatch{})
	require.NoError(t, err)
	require.Equal(t, want, *same)
}

func TestIntegration_UpdateCitizen_ReplaceEdges(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	id := create(t, st, mkCitizen(1, 1, 2), mkCitizen(2, 1), mkCitizen(3))

	rel := []int64{3}
	got, err := st.UpdateCitizen(ctx, id, 1, models.CitizenPatch{Relatives: &rel})
	require.NoError(t, err)
	require.Equal(t, []int64{3}, got.Relatives)

	c2, err := st.CitizenByID(ctx, id, 2)
	require.NoError(t, err)
	require.Empty(t, c2.Relatives)

	c3, err := st.CitizenByID(ctx, id, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, c3.Relatives)

	back := []int64{1, 2}
	got, err = st.UpdateCitizen(ctx, id, 1, models.CitizenPatch{Relatives: &back})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, got.Relatives)

	all, err := st.Citizens(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []models.Citizen{mkCitizen(1, 1, 2), mkCitizen(2, 1), mkCitizen(3)}, all)
}

func TestIntegration_UpdateCitizen_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	id := create(t, st, mkCitizen(1))

	name := "x"
	_, err := st.UpdateCitizen(ctx, id, 2, models.CitizenPatch{Name: &name})
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UpdateCitizen(ctx, id, 2, models.CitizenPatch{})
	require.ErrorIs(t, err, storage.ErrNotFound)

	rel := []int64{5}
	_, err = st.UpdateCitizen(ctx, id, 1, models.CitizenPatch{Name: &name, Relatives: &rel})
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Транзакция откатилась: имя не изменилось.
	c, err := st.CitizenByID(ctx, id, 1)
	require.NoError(t, err)
	require.Equal(t, mkCitizen(1), *c)
}

func TestIntegration_ContextDeadlineExceeded(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := st.ImportExists(ctx, 1)
	require.Error(t, err)
}
