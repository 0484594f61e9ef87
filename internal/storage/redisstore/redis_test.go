package redisstore

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chemical-visualizer/internal/config"
	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage"
)

func setupTestStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestNew_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = New(context.Background(), config.RedisConnection{AddressRedis: addr, DialTimeout: 100 * time.Millisecond})
	require.Error(t, err)
}

func TestStorage_CreateAndGet(t *testing.T) {
	s, mr := setupTestStorage(t)
	ctx := context.Background()
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	uid, err := s.CreateUser(ctx, models.User{Username: "alice", Email: "a@example.com", PasswordHash: "h1", DateJoined: joined})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)
	assert.True(t, mr.Exists("user:alice"))

	exists, err := s.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UUID)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "h1", got.PasswordHash)
	assert.True(t, joined.Equal(got.DateJoined))
}

func TestStorage_Duplicate(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "h2"})
	require.ErrorIs(t, err, storage.ErrUserExists)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.PasswordHash, "stored record must stay unchanged")

	users, err := s.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestStorage_NotFound(t *testing.T) {
	s, _ := setupTestStorage(t)

	exists, err := s.UserExists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.GetUserByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_UsernameDoesNotClashWithIndex(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()

	for _, name := range []string{"index", "alice"} {
		_, err := s.CreateUser(ctx, models.User{Username: name, PasswordHash: "h", DateJoined: time.Now()})
		require.NoError(t, err)
	}

	got, err := s.GetUserByUsername(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, "index", got.Username)

	users, err := s.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestStorage_ConcurrentCreate(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateUser(ctx, models.User{Username: "racer"}); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
}

func TestStorage_ListUsers(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"carol", "alice", "bob"} {
		_, err := s.CreateUser(ctx, models.User{Username: name, DateJoined: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		limit  int
		offset int
		want   []string
	}{
		{name: "all in join order", limit: 10, offset: 0, want: []string{"carol", "alice", "bob"}},
		{name: "page", limit: 2, offset: 1, want: []string{"alice", "bob"}},
		{name: "offset past end", limit: 10, offset: 3, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := s.ListUsers(ctx, tt.limit, tt.offset)
			require.NoError(t, err)

			var got []string
			for _, u := range users {
				got = append(got, u.Username)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorage_ListUsers_HugeOffset(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "h", DateJoined: time.Now()})
	require.NoError(t, err)

	users, err := s.ListUsers(ctx, storage.MaxListLimit, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestStorage_Ping(t *testing.T) {
	s, mr := setupTestStorage(t)
	require.NoError(t, s.Ping(context.Background()))

	mr.SetError("server is down")
	assert.Error(t, s.Ping(context.Background()))
}
