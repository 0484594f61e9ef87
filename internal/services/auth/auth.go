// Package auth содержит логику бизнес-уровня для регистрации пользователей
// и проверки их учётных данных.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/chemical-visualizer/internal/lib/password"
	"github.com/magabrotheeeer/chemical-visualizer/internal/lib/sl"
	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage"
)

var (
	// ErrUserExists — username уже занят.
	ErrUserExists = errors.New("user exists")
	// ErrInvalidCredentials — пользователь не найден или пароль неверный.
	// Причины намеренно не различаются.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyHash — хеш, с которым сверяется пароль несуществующего пользователя,
// чтобы ответ занимал столько же времени, сколько при неверном пароле.
var dummyHash = sync.OnceValue(func() string {
	h, err := password.GetHash("chemical-visualizer/dummy-password")
	if err != nil {
		return ""
	}
	return h
})

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// UserExists сообщает, занят ли username.
	UserExists(ctx context.Context, username string) (bool, error)

	// CreateUser сохраняет нового пользователя и возвращает его UID.
	// При занятом username возвращает storage.ErrUserExists.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя или storage.ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Publisher отправляет события о регистрации во внешнюю очередь.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, event models.UserRegistered) error
}

// Service отвечает за регистрацию и вход пользователей.
type Service struct {
	users     UserRepository
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time

	compareHash func(hash, raw string) error
}

// NewService создает новый экземпляр Service. publisher может быть nil.
func NewService(users UserRepository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		publisher: publisher,
		log:       log,
		now:       time.Now,

		compareHash: password.CompareHash,
	}
}

// Register создаёт пользователя с хешированным паролем.
//
// Проверка существования выполняется до хеширования, чтобы не тратить
// bcrypt на заведомо занятое имя. Гонку между проверкой и вставкой
// закрывает само хранилище.
func (s *Service) Register(ctx context.Context, username, rawPassword, email string) (*models.User, error) {
	const op = "services.auth.Register"

	exists, err := s.users.UserExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		DateJoined:   s.now().UTC(),
	}
	uid, err := s.users.CreateUser(ctx, user)
	if errors.Is(err, storage.ErrUserExists) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UUID = uid

	if s.publisher != nil {
		if err := s.publisher.PublishUserRegistered(ctx, user.RegisteredEvent()); err != nil {
			s.log.Warn("failed to publish user registered event",
				slog.String("op", op),
				slog.String("username", username),
				sl.Err(err),
			)
		}
	}
	return &user, nil
}

// Login проверяет пароль пользователя и возвращает его запись.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (*models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrUserNotFound) {
		_ = s.compareHash(dummyHash(), rawPassword)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.compareHash(user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Error("stored password hash is unusable",
				slog.String("op", op),
				slog.String("username", username),
				sl.Err(err),
			)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	return user, nil
}
