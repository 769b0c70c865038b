package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/joaop06/jcoder/pkg/cache"
	"github.com/stretchr/testify/assert"
)

func prepareMiniRedis(t *testing.T) *redis.Client {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
		DB:   1,
	})

	return client
}

func TestNewRedis(t *testing.T) {
	t.Run("bad dep", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{})
		assert.Nil(t, c)
		assert.Error(t, err)
	})

	t.Run("ok", func(t *testing.T) {
		conf := cache.RedisConfig{
			DB: prepareMiniRedis(t),
		}

		c, err := cache.NewRedis(conf)
		assert.NotNil(t, c)
		assert.NoError(t, err)
	})
}

func TestRedis_GetAs(t *testing.T) {
	t.Run("no key found", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		assert.NoError(t, err)

		var out cachedApp
		err = c.GetAs(context.Background(), "application:1", &out)
		assert.Error(t, err)
		assert.ErrorIs(t, err, cache.ErrKeyNotExist)
	})

	t.Run("success", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		assert.NoError(t, err)

		in := cachedApp{
			ID:   1,
			Name: "portfolio-api",
		}

		err = c.SetExp(context.Background(), "application:1", in, time.Minute)
		assert.NoError(t, err)

		var out cachedApp
		err = c.GetAs(context.Background(), "application:1", &out)
		assert.NoError(t, err)
		assert.Equal(t, in, out)
	})
}

func TestRedis_SetExp(t *testing.T) {
	t.Run("unmarshalable value", func(t *testing.T) {
		c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
		assert.NoError(t, err)

		err = c.SetExp(context.Background(), "key", func() {}, time.Minute)
		assert.Error(t, err)
	})
}

func TestRedis_Delete(t *testing.T) {
	c, err := cache.NewRedis(cache.RedisConfig{DB: prepareMiniRedis(t)})
	assert.NoError(t, err)

	in := cachedApp{ID: 2, Name: "portfolio-web"}
	err = c.SetExp(context.Background(), "applications:owner:9", in, time.Minute)
	assert.NoError(t, err)

	err = c.Delete(context.Background(), "applications:owner:9")
	assert.NoError(t, err)

	var out cachedApp
	err = c.GetAs(context.Background(), "applications:owner:9", &out)
	assert.ErrorIs(t, err, cache.ErrKeyNotExist)
}
