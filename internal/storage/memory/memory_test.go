package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage"
)

func TestStorage_CreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	uid, err := s.CreateUser(ctx, models.User{Username: "alice", Email: "a@example.com", PasswordHash: "h1", DateJoined: joined})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	exists, err := s.UserExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UUID)
	assert.Equal(t, "h1", got.PasswordHash)

	got.Email = "mutated@example.com"
	again, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", again.Email, "returned user must be a copy")
}

func TestStorage_Duplicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "h2"})
	require.ErrorIs(t, err, storage.ErrUserExists)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.PasswordHash)
}

func TestStorage_NotFound(t *testing.T) {
	s := New()

	exists, err := s.UserExists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.GetUserByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_ConcurrentCreate(t *testing.T) {
	s := New()
	ctx := context.Background()

	const workers = 32
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateUser(ctx, models.User{Username: "racer"})
			if err == nil {
				succeeded.Add(1)
				return
			}
			if assert.ErrorIs(t, err, storage.ErrUserExists) {
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())
}

func TestStorage_ListUsers(t *testing.T) {
	s := New()
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
		{name: "page", limit: 1, offset: 1, want: []string{"alice"}},
		{name: "default limit", limit: 0, offset: 0, want: []string{"carol", "alice", "bob"}},
		{name: "offset past end", limit: 10, offset: 5, want: nil},
		{name: "negative offset", limit: 2, offset: -3, want: []string{"carol", "alice"}},
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

func TestStorage_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Ping(ctx), context.Canceled)

	_, err := s.CreateUser(ctx, models.User{Username: "alice"})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.ListUsers(ctx, 10, 0)
	require.ErrorIs(t, err, context.Canceled)
}
