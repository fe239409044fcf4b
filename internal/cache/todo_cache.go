package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-auth/backend/internal/models"
)

const (
	todoListKeyPrefix    = "todo:list:"
	todoVersionKeyPrefix = "todo:version:"
)

// TodoCache は所有者ごとのTodo一覧をJSONでRedisに保存します。
// 所有者ごとにバージョンを持ち、Invalidate のたびに進めます。
// 読み込み中にバージョンが進んだ一覧は保存しません。
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache は TodoCache を作成します。
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// Get はキャッシュされた一覧を返します。キャッシュがなければ ok は false です。
func (c *TodoCache) Get(ctx context.Context, ownerID int64) ([]models.Todo, bool, error) {
	data, err := c.rdb.Get(ctx, todoListKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var todos []models.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, false, err
	}
	// json:"-" のため所有者は復元されない
	for i := range todos {
		todos[i].UserID = ownerID
	}
	return todos, true, nil
}

// Version は所有者の現在のバージョンを返します。一度も無効化されていなければ0です。
func (c *TodoCache) Version(ctx context.Context, ownerID int64) (int64, error) {
	return c.version(ctx, c.rdb, ownerID)
}

// Set はバージョンが version のままであれば一覧を保存します。
// 進んでいた場合は何もせず nil を返します。
func (c *TodoCache) Set(ctx context.Context, ownerID, version int64, todos []models.Todo) error {
	payload, err := json.Marshal(todos)
	if err != nil {
		return err
	}

	versionKey := todoVersionKey(ownerID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.version(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, todoListKey(ownerID), payload, c.ttl)
			return nil
		})
		return err
	}, versionKey)
	// 監視中にバージョンが進んだ
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate は所有者のバージョンを進め、一覧を削除します。
func (c *TodoCache) Invalidate(ctx context.Context, ownerID int64) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, todoVersionKey(ownerID))
		pipe.Del(ctx, todoListKey(ownerID))
		return nil
	})
	return err
}

// stringGetter は *redis.Client と *redis.Tx の両方が満たします。
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *TodoCache) version(ctx context.Context, cmd stringGetter, ownerID int64) (int64, error) {
	v, err := cmd.Get(ctx, todoVersionKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func todoListKey(ownerID int64) string {
	return todoListKeyPrefix + strconv.FormatInt(ownerID, 10)
}

func todoVersionKey(ownerID int64) string {
	return todoVersionKeyPrefix + strconv.FormatInt(ownerID, 10)
}
