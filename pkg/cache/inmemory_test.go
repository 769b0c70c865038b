package cache_test

import (
	"context"
	"testing"

	"github.com/joaop06/jcoder/pkg/cache"
	"github.com/stretchr/testify/assert"
)

type cachedApp struct {
	ID   int64
	Name string
}

func TestNewInMemory(t *testing.T) {
	c, err := cache.NewInMemory()
	assert.NotNil(t, c)
	assert.NoError(t, err)
}

func TestInMemory_GetAs(t *testing.T) {
	t.Run("no key found", func(t *testing.T) {
		c, err := cache.NewInMemory()
		assert.NoError(t, err)

		var out cachedApp
		err = c.GetAs(context.Background(), "application:1", &out)
		assert.Error(t, err)
		assert.ErrorIs(t, err, cache.ErrKeyNotExist)
	})

	t.Run("success", func(t *testing.T) {
		c, err := cache.NewInMemory()
		assert.NoError(t, err)

		in := cachedApp{
			ID:   1,
			Name: "portfolio-api",
		}

		err = c.SetExp(context.Background(), "application:1", in, -1)
		assert.NoError(t, err)

		var out cachedApp
		err = c.GetAs(context.Background(), "application:1", &out)
		assert.NoError(t, err)
		assert.Equal(t, in, out)
	})
}

func TestInMemory_SetExp(t *testing.T) {
	t.Run("unmarshalable value", func(t *testing.T) {
		c, err := cache.NewInMemory()
		assert.NoError(t, err)

		err = c.SetExp(context.Background(), "key", func() {}, -1)
		assert.Error(t, err)
	})
}

func TestInMemory_Delete(t *testing.T) {
	c, err := cache.NewInMemory()
	assert.NoError(t, err)

	in := cachedApp{ID: 2, Name: "portfolio-web"}
	err = c.SetExp(context.Background(), "application:2", in, -1)
	assert.NoError(t, err)

	err = c.Delete(context.Background(), "application:2")
	assert.NoError(t, err)

	var out cachedApp
	err = c.GetAs(context.Background(), "application:2", &out)
	assert.ErrorIs(t, err, cache.ErrKeyNotExist)
}
