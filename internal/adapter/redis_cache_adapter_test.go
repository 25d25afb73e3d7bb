package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/PranavPrasannaV/satapp/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapterGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(db)

	mock.ExpectGet("satapp:generation:batch:abc").SetVal(`[{"question":"q"}]`)

	val, err := cacheAdapter.Get(context.Background(), "satapp:generation:batch:abc")
	require.NoError(t, err)
	assert.Equal(t, `[{"question":"q"}]`, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterGetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(db)

	mock.ExpectGet("missing").RedisNil()

	_, err := cacheAdapter.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(db)

	mock.ExpectSet("key", "value", 10*time.Minute).SetVal("OK")

	err := cacheAdapter.Set(context.Background(), "key", "value", 10*time.Minute)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(db)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, cacheAdapter.Ping(context.Background()))
}
