package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Тесты кэша аналитики:
//  - nop-кэш: всегда промах, операции без ошибок;
//  - KindAges: вид зависит от даты;
//  - интеграционно (Redis через testcontainers-go, модуль redis):
//    промах -> Set -> попадание; Invalidate увеличивает версию и прячет старые ответы;
//    запись под устаревшей версией не видна читателям новой; TTL на хэше.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/cache -v -count=1

func TestNop(t *testing.T) {
	t.Parallel()

	c := NewNop()
	ctx := context.Background()

	ver, err := c.Version(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, ver)

	require.NoError(t, c.Set(ctx, 1, ver, KindBirthdays, []byte(`{}`)))

	_, ok, err := c.Get(ctx, 1, ver, KindBirthdays)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Invalidate(ctx, 1))
	require.NoError(t, c.Close())
}

func TestKindAges(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ages:2026.10.15", KindAges("2026.10.15"))
	require.NotEqual(t, KindAges("2026.10.15"), KindAges("2026.10.16"))
}

// startRedis — поднимает Redis и возвращает кэш с коротким TTL.
// Если GO_TEST_INTEGRATION не установлена — тест пропускается.
func startRedis(t *testing.T, ttl time.Duration) *redisCache {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "docker.io/redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	c, err := NewRedisCache(ctx, url, "test:", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c.(*redisCache)
}

func TestIntegration_GetSetInvalidate(t *testing.T) {
	c := startRedis(t, time.Minute)
	ctx := context.Background()

	ver, err := c.Version(ctx, 7)
	require.NoError(t, err)
	require.Zero(t, ver)

	_, ok, err := c.Get(ctx, 7, ver, KindBirthdays)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, 7, ver, KindBirthdays, []byte(`{"data":{}}`)))

	got, ok, err := c.Get(ctx, 7, ver, KindBirthdays)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"data":{}}`, string(got))

	// Другие выгрузки и виды не задеты.
	_, ok, err = c.Get(ctx, 8, ver, KindBirthdays)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Invalidate(ctx, 7))

	newVer, err := c.Version(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, ver+1, newVer)

	_, ok, err = c.Get(ctx, 7, newVer, KindBirthdays)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIntegration_StaleWriteIsInvisible(t *testing.T) {
	c := startRedis(t, time.Minute)
	ctx := context.Background()

	// Читатель взял версию, затем выгрузку изменили.
	stale, err := c.Version(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, 1))

	require.NoError(t, c.Set(ctx, 1, stale, KindAges("2026.10.15"), []byte(`old`)))

	cur, err := c.Version(ctx, 1)
	require.NoError(t, err)

	_, ok, err := c.Get(ctx, 1, cur, KindAges("2026.10.15"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIntegration_TTL(t *testing.T) {
	c := startRedis(t, 2*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, 0, KindBirthdays, []byte(`x`)))

	ttl, err := c.rdb.TTL(ctx, c.statsKey(1, 0)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, 2*time.Second)
}
