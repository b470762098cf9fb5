package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestLocalStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)

	s := openStore(t, NewLocalStore(client, "cart:session:", "abc", time.Hour))
	require.NoError(t, s.Add(ctx, line("honey", 10, 1)))
	require.NoError(t, s.Add(ctx, line("honey", 10, 2)))

	assert.True(t, mr.Exists("cart:session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("cart:session:abc"))

	reopened := openStore(t, NewLocalStore(client, "cart:session:", "abc", time.Hour))
	lines := reopened.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "honey", lines[0].LineID)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestLocalStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)

	a := openStore(t, NewLocalStore(client, "cart:session:", "a", time.Hour))
	require.NoError(t, a.Add(ctx, line("dates", 4, 1)))

	b := openStore(t, NewLocalStore(client, "cart:session:", "b", time.Hour))
	assert.Empty(t, b.Lines())
}

func TestLocalStoreRemovingLastLineDeletesKey(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)

	s := openStore(t, NewLocalStore(client, "cart:session:", "abc", time.Hour))
	require.NoError(t, s.Add(ctx, line("figs", 3, 1)))
	require.NoError(t, s.Remove(ctx, "figs"))

	assert.False(t, mr.Exists("cart:session:abc"))
}

func TestLocalStoreSetQuantityUnknownLine(t *testing.T) {
	_, client := newRedis(t)
	backend := NewLocalStore(client, "cart:session:", "abc", time.Hour)

	err := backend.SetQuantity(context.Background(), "nope", 2)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestLocalStoreSurfacesRedisOutage(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	_, err := Open(context.Background(), NewLocalStore(client, "cart:session:", "abc", time.Hour))
	assert.Error(t, err)
}
