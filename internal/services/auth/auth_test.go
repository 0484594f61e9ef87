package auth_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/chemical-visualizer/internal/lib/password"
	"github.com/magabrotheeeer/chemical-visualizer/internal/lib/sl"
	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
	"github.com/magabrotheeeer/chemical-visualizer/internal/services/auth"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage/memory"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) UserExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для Publisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishUserRegistered(ctx context.Context, event models.UserRegistered) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		email      string
		setupMocks func(r *UserRepoMock, p *PublisherMock)
		wantUID    string
		wantErr    error
		errMsg     string
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "password123",
			email:    "alice@example.com",
			setupMocks: func(r *UserRepoMock, p *PublisherMock) {
				r.On("UserExists", mock.Anything, "alice").Return(false, nil).Once()
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Username == "alice" &&
						user.Email == "alice@example.com" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "password123" &&
						!user.DateJoined.IsZero()
				})).Return("uid-1", nil).Once()
				p.On("PublishUserRegistered", mock.Anything, mock.MatchedBy(func(e models.UserRegistered) bool {
					return e.UUID == "uid-1" && e.Username == "alice"
				})).Return(nil).Once()
			},
			wantUID: "uid-1",
		},
		{
			name:     "empty email is kept empty",
			username: "bob",
			password: "pw",
			setupMocks: func(r *UserRepoMock, p *PublisherMock) {
				r.On("UserExists", mock.Anything, "bob").Return(false, nil).Once()
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == ""
				})).Return("uid-2", nil).Once()
				p.On("PublishUserRegistered", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantUID: "uid-2",
		},
		{
			name:     "username taken",
			username: "alice",
			password: "password123",
			setupMocks: func(r *UserRepoMock, _ *PublisherMock) {
				r.On("UserExists", mock.Anything, "alice").Return(true, nil).Once()
			},
			wantErr: auth.ErrUserExists,
		},
		{
			name:     "username taken between check and create",
			username: "alice",
			password: "password123",
			setupMocks: func(r *UserRepoMock, _ *PublisherMock) {
				r.On("UserExists", mock.Anything, "alice").Return(false, nil).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return("", fmt.Errorf("storage.CreateUser: %w", storage.ErrUserExists)).Once()
			},
			wantErr: auth.ErrUserExists,
		},
		{
			name:     "existence check fails",
			username: "alice",
			password: "password123",
			setupMocks: func(r *UserRepoMock, _ *PublisherMock) {
				r.On("UserExists", mock.Anything, "alice").Return(false, errors.New("db down")).Once()
			},
			errMsg: "db down",
		},
		{
			name:     "create fails",
			username: "alice",
			password: "password123",
			setupMocks: func(r *UserRepoMock, _ *PublisherMock) {
				r.On("UserExists", mock.Anything, "alice").Return(false, nil).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			errMsg: "db error",
		},
		{
			name:     "password longer than bcrypt limit",
			username: "alice",
			password: strings.Repeat("x", 100),
			setupMocks: func(r *UserRepoMock, _ *PublisherMock) {
				r.On("UserExists", mock.Anything, "alice").Return(false, nil).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).Return("uid-4", nil).Once()
			},
			wantUID: "uid-4",
		},
		{
			name:     "publish failure does not fail registration",
			username: "carol",
			password: "pw",
			setupMocks: func(r *UserRepoMock, p *PublisherMock) {
				r.On("UserExists", mock.Anything, "carol").Return(false, nil).Once()
				r.On("CreateUser", mock.Anything, mock.Anything).Return("uid-3", nil).Once()
				p.On("PublishUserRegistered", mock.Anything, mock.Anything).Return(errors.New("amqp closed")).Once()
			},
			wantUID: "uid-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			pub := new(PublisherMock)
			svc := auth.NewService(repo, pub, sl.Discard())

			tt.setupMocks(repo, pub)

			got, err := svc.Register(context.Background(), tt.username, tt.password, tt.email)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.NotErrorIs(t, err, auth.ErrUserExists)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantUID, got.UUID)
				assert.Equal(t, tt.username, got.Username)
			}

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestService_Register_NilPublisher(t *testing.T) {
	svc := auth.NewService(memory.New(), nil, sl.Discard())

	user, err := svc.Register(context.Background(), "alice", "pw", "")
	require.NoError(t, err)
	assert.NotEmpty(t, user.UUID)
}

func TestService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashedPassword, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	testUser := &models.User{
		UUID:         "uid-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hashedPassword,
		DateJoined:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
		errMsg     string
	}{
		{
			name:     "successful login",
			username: "alice",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(testUser, nil).Once()
			},
		},
		{
			name:     "user not found",
			username: "nobody",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "nobody").
					Return(nil, fmt.Errorf("storage: %w", storage.ErrUserNotFound)).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(testUser, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "corrupted stored hash",
			username: "alice",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				broken := *testUser
				broken.PasswordHash = "garbage"
				r.On("GetUserByUsername", mock.Anything, "alice").Return(&broken, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "storage failure",
			username: "alice",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "alice").Return(nil, errors.New("db down")).Once()
			},
			errMsg: "db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := auth.NewService(repo, nil, sl.Discard())

			tt.setupMocks(repo)

			got, err := svc.Login(context.Background(), tt.username, tt.password)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
			default:
				require.NoError(t, err)
				assert.Equal(t, "alice", got.Username)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestService_RegisterThenLogin(t *testing.T) {
	svc := auth.NewService(memory.New(), nil, sl.Discard())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "s3cret", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other", "")
	require.ErrorIs(t, err, auth.ErrUserExists)

	user, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "second registration must not alter the record")

	_, err = svc.Login(ctx, "alice", "other")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Login_UnknownUserStillChecksPassword(t *testing.T) {
	store := memory.New()
	svc := auth.NewService(store, nil, sl.Discard())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "s3cret", "")
	require.NoError(t, err)

	var hashes []string
	svc.SetCompareHash(func(hash, raw string) error {
		hashes = append(hashes, hash)
		return password.CompareHash(hash, raw)
	})

	_, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "ghost", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	require.Len(t, hashes, 2, "both wrong password and unknown user must run bcrypt")
	stored, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, stored.PasswordHash, hashes[0])

	cost, err := bcrypt.Cost([]byte(hashes[1]))
	require.NoError(t, err, "unknown user must be checked against a real bcrypt hash")
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
