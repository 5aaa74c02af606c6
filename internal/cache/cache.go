// cache — кэш посчитанной аналитики выгрузок в Redis.
//
// Ключи версионируются: gift:ver:{import_id} хранит номер версии выгрузки,
// gift:stats:{import_id}:{ver} — хэш kind -> JSON-ответ с TTL.
// Читатель берёт версию до похода в БД и пишет результат под ней же:
// если выгрузку изменили (Invalidate увеличил версию), результат попадает
// в хэш, который больше никто не читает.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// KindBirthdays — вид для подарков по месяцам.
const KindBirthdays = "birthdays"

// KindAges — вид для перцентилей возраста на дату today (YYYY.MM.DD).
func KindAges(today string) string { return "ages:" + today }

// StatsCache — контракт кэша аналитики.
type StatsCache interface {
	// Version возвращает текущую версию выгрузки (0, если её ещё не меняли).
	Version(ctx context.Context, importID int64) (int64, error)
	// Get возвращает сохранённый ответ и признак его наличия.
	Get(ctx context.Context, importID, version int64, kind string) ([]byte, bool, error)
	// Set сохраняет ответ под версией, прочитанной до обращения к БД.
	Set(ctx context.Context, importID, version int64, kind string, payload []byte) error
	// Invalidate делает недоступными все сохранённые ответы выгрузки.
	Invalidate(ctx context.Context, importID int64) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "gift:".
func NewRedisCache(ctx context.Context, redisURL, prefix string, ttl time.Duration) (StatsCache, error) {
	const op = "cache/NewRedisCache"

	if prefix == "" {
		prefix = "gift:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &redisCache{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (c *redisCache) versionKey(importID int64) string {
	return c.prefix + "ver:" + strconv.FormatInt(importID, 10)
}

func (c *redisCache) statsKey(importID, version int64) string {
	return c.prefix + "stats:" + strconv.FormatInt(importID, 10) + ":" + strconv.FormatInt(version, 10)
}

func (c *redisCache) Version(ctx context.Context, importID int64) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey(importID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	return v, err
}

func (c *redisCache) Get(ctx context.Context, importID, version int64, kind string) ([]byte, bool, error) {
	b, err := c.rdb.HGet(ctx, c.statsKey(importID, version), kind).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return b, true, nil
}

func (c *redisCache) Set(ctx context.Context, importID, version int64, kind string, payload []byte) error {
	key := c.statsKey(importID, version)

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, kind, payload)
	pipe.Expire(ctx, key, c.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate увеличивает версию. Ключ версии живёт без TTL:
// его исчезновение вернуло бы версию 0 и старые хэши.
func (c *redisCache) Invalidate(ctx context.Context, importID int64) error {
	return c.rdb.Incr(ctx, c.versionKey(importID)).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

type nopCache struct{}

// NewNop — кэш выключен (redis.url не задан): всегда промах.
func NewNop() StatsCache { return nopCache{} }

func (nopCache) Version(context.Context, int64) (int64, error) { return 0, nil }
func (nopCache) Get(context.Context, int64, int64, string) ([]byte, bool, error) { return nil, false, nil }
func (nopCache) Set(context.Context, int64, int64, string, []byte) error { return nil }
func (nopCache) Invalidate(context.Context, int64) error { return nil }
func (nopCache) Close() error { return nil }
