package memorykv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mannepanne/hultberg-admin/internal/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := New(clock)

	require.NoError(t, s.Put(ctx, "auth:token:abc", `{"email":"a@b.c"}`, time.Minute))

	got, err := s.Get(ctx, "auth:token:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"email":"a@b.c"}`, got)
}

func TestStore_Get_Missing(t *testing.T) {
	s := New(&fakeClock{t: time.Now()})

	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestStore_Get_Expired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := New(clock)

	require.NoError(t, s.Put(ctx, "k", "v", time.Minute))

	clock.t = clock.t.Add(time.Minute)
	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestStore_Put_ReplacesTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := New(clock)

	require.NoError(t, s.Put(ctx, "k", "v1", time.Minute))

	// Rewrite shortens the TTL, as consume does for used tokens.
	clock.t = clock.t.Add(30 * time.Second)
	require.NoError(t, s.Put(ctx, "k", "v2", time.Second))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	clock.t = clock.t.Add(2 * time.Second)
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, model.ErrNotFound)
}
