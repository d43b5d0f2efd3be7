package cache

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_Invalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	for i := 0; i < 1200; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("news:v1:list:%d", i), "cached"))
	}
	require.NoError(t, mr.Set("news:v2:list:1", "other version"))
	require.NoError(t, mr.Set("session:abc", "unrelated"))

	inv, err := NewRedis("redis://"+mr.Addr()+"/0", "news:v1:")
	require.NoError(t, err)
	defer inv.Close()

	require.NoError(t, inv.Ping(context.Background()))

	n, err := inv.Invalidate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1200), n)
	assert.ElementsMatch(t, []string{"news:v2:list:1", "session:abc"}, mr.Keys())

	// nothing left to delete
	n, err = inv.Invalidate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedis_InvalidateError(t *testing.T) {
	mr := miniredis.RunT(t)
	inv, err := NewRedis("redis://"+mr.Addr(), "news:v1:")
	require.NoError(t, err)
	defer inv.Close()
	mr.Close()

	_, err = inv.Invalidate(context.Background())
	require.Error(t, err)
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis("http://not-redis", "news:v1:")
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	var inv Invalidator = Nop{}
	n, err := inv.Invalidate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
