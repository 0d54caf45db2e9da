package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestFakeCache(t *testing.T) {
	ctx := context.Background()
	c := &FakeCache{}
	require.Panics(t, func() { c.Get(ctx, "k") })
	require.Panics(t, func() { c.GetDel(ctx, "k") })
	require.Panics(t, func() { c.Set(ctx, "k", 1, 0) })
	require.Equal(t, "PONG", c.Ping(ctx).Val())
	require.NoError(t, c.Close())

	called := map[string]bool{}
	c.GetFn = func(context.Context, string) *redis.StringCmd {
		called["get"] = true
		return redis.NewStringResult("v", nil)
	}
	c.GetDelFn = func(context.Context, string) *redis.StringCmd {
		called["getdel"] = true
		return redis.NewStringResult("", redis.Nil)
	}
	c.SetFn = func(context.Context, string, any, time.Duration) *redis.StatusCmd {
		called["set"] = true
		return redis.NewStatusResult("OK", nil)
	}
	c.PingFn = func(context.Context) *redis.StatusCmd {
		called["ping"] = true
		return redis.NewStatusResult("", errors.New("down"))
	}
	c.CloseFn = func() error { called["close"] = true; return errors.New("close") }

	require.Equal(t, "v", c.Get(ctx, "k").Val())
	require.ErrorIs(t, c.GetDel(ctx, "k").Err(), redis.Nil)
	require.Equal(t, "OK", c.Set(ctx, "k", 1, 0).Val())
	require.Error(t, c.Ping(ctx).Err())
	require.EqualError(t, c.Close(), "close")
	for _, k := range []string{"get", "getdel", "set", "ping", "close"} {
		require.True(t, called[k], k)
	}
}
