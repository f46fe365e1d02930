package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := NewRedisKVFromClient(client, "")
	t.Cleanup(func() { _ = kv.Close() })
	return kv, mr
}

func TestRedisKV_Contract(t *testing.T) {
	kv, _ := newTestRedisKV(t)
	kvContract(t, kv)
}

func TestRedisKV_KeysArePrefixed(t *testing.T) {
	kv, mr := newTestRedisKV(t)
	require.NoError(t, kv.Set(context.Background(), "canvas:current", "payload"))

	v, err := mr.Get("flowcanvas:canvas:current")
	require.NoError(t, err)
	assert.Equal(t, "payload", v)
}

func TestRedisKV_CustomPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := NewRedisKVFromClient(client, "team-a:")
	t.Cleanup(func() { _ = kv.Close() })

	require.NoError(t, kv.Set(context.Background(), "k", "v"))
	v, err := mr.Get("team-a:k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestNewRedisKV_ConnectFailure(t *testing.T) {
	_, err := NewRedisKV(RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}
