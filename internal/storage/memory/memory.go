// Package memory реализует хранилище пользователей в памяти процесса.
// Используется в тестах и при storage_driver: memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage"
)

// Storage хранит пользователей в map, ключ — username.
type Storage struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users: make(map[string]models.User),
	}
}

// Ping всегда успешен, пока контекст жив.
func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// UserExists сообщает, зарегистрирован ли пользователь с таким username.
func (s *Storage) UserExists(ctx context.Context, username string) (bool, error) {
	const op = "storage.memory.UserExists"
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok, nil
}

// CreateUser атомарно проверяет username и сохраняет пользователя.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.memory.CreateUser"
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return "", fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	}
	user.UUID = uuid.NewString()
	s.users[user.Username] = user
	return user.UUID, nil
}

// GetUserByUsername возвращает копию сохранённого пользователя.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.memory.GetUserByUsername"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return &u, nil
}

// ListUsers возвращает страницу пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.memory.ListUsers"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	limit, offset = storage.NormalizePage(limit, offset)

	s.mu.RLock()
	all := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, &u)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].DateJoined.Equal(all[j].DateJoined) {
			return all[i].Username < all[j].Username
		}
		return all[i].DateJoined.Before(all[j].DateJoined)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}
