// Package redisstore реализует хранилище пользователей поверх Redis.
//
// Запись пользователя лежит в ключе user:<username> в виде JSON,
// а сортированное множество users:index (score — момент регистрации)
// задаёт порядок для постраничного вывода. Создание выполняется одной
// транзакцией SETNX + ZADD NX, поэтому проверка и вставка атомарны.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/chemical-visualizer/internal/config"
	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage"
)

const (
	userKeyPrefix = "user:"
	indexKey      = "users:index"
)

// Storage хранит клиента Redis.
type Storage struct {
	Db *redis.Client
}

// New подключается к Redis и проверяет соединение.
func New(ctx context.Context, cfg config.RedisConnection) (*Storage, error) {
	const op = "storage.redisstore.New"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{Db: db}, nil
}

func userKey(username string) string {
	return userKeyPrefix + username
}

// Ping проверяет доступность Redis.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.redisstore.Ping"
	if err := s.Db.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает клиента.
func (s *Storage) Close() error {
	return s.Db.Close()
}

// UserExists сообщает, зарегистрирован ли пользователь с таким username.
func (s *Storage) UserExists(ctx context.Context, username string) (bool, error) {
	const op = "storage.redisstore.UserExists"
	n, err := s.Db.Exists(ctx, userKey(username)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// CreateUser сохраняет пользователя, если username свободен, и возвращает его UID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.redisstore.CreateUser"

	user.UUID = uuid.NewString()
	data, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var created *redis.BoolCmd
	_, err = s.Db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, userKey(user.Username), data, 0)
		pipe.ZAddNX(ctx, indexKey, redis.Z{
			Score:  float64(user.DateJoined.UnixMilli()),
			Member: user.Username,
		})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !created.Val() {
		return "", fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	}
	return user.UUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.redisstore.GetUserByUsername"
	val, err := s.Db.Get(ctx, userKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var u models.User
	if err = json.Unmarshal(val, &u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// ListUsers возвращает страницу пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.redisstore.ListUsers"
	limit, offset = storage.NormalizePage(limit, offset)

	names, err := s.Db.ZRange(ctx, indexKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = userKey(name)
	}
	vals, err := s.Db.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*models.User, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	return result, nil
}
