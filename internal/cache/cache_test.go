package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"Finary/config"
	"Finary/internal/pkg"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, &RedisClient{Client: client}
}

func TestKeys(t *testing.T) {
	userID := pkg.GenerateULIDObject()

	assert.Equal(t, "budgets:"+userID.String(), BudgetsKey(userID))
	assert.Equal(t, "transactions:"+userID.String(), TransactionsKey(userID))
	assert.Equal(t, "categories:"+userID.String(), CategoriesKey(userID))
	assert.Equal(t, "goals:"+userID.String(), GoalsKey(userID))
	assert.Equal(t, []string{BudgetsKey(userID), TransactionsKey(userID)}, LedgerKeys(userID))
}

func TestRedisClientGetMiss(t *testing.T) {
	_, client := setupMiniredis(t)

	_, err := client.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Server().Addr().Port

	client, err := NewRedisClient(config.RedisConfig{Host: host, Port: port, PoolSize: 2})
	require.NoError(t, err)
	assert.NoError(t, client.Ping(context.Background()))
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedisClient(config.RedisConfig{Host: host, Port: port, PoolSize: 2})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestGetOrComputeStoresOnMiss(t *testing.T) {
	mr, client := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) ([]entry, error) {
		calls++
		return []entry{{Name: "groceries", Total: 120}}, nil
	}

	got, err := GetOrCompute(ctx, client, "budgets:u1", 10*time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, []entry{{Name: "groceries", Total: 120}}, got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 10*time.Minute, mr.TTL("budgets:u1"))

	again, err := GetOrCompute(ctx, client, "budgets:u1", 10*time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 1, calls, "second read must be served from the cache")
}

func TestGetOrComputeRecoversFromCorruptEntry(t *testing.T) {
	mr, client := setupMiniredis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("budgets:u1", "{not json"))

	got, err := GetOrCompute(ctx, client, "budgets:u1", time.Minute, func(context.Context) ([]entry, error) {
		return []entry{{Name: "rent", Total: 900}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []entry{{Name: "rent", Total: 900}}, got)

	stored, err := mr.Get("budgets:u1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"rent","total":900}]`, stored)
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	mr, client := setupMiniredis(t)

	_, err := GetOrCompute(context.Background(), client, "goals:u1", time.Minute, func(context.Context) ([]entry, error) {
		return nil, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists("goals:u1"))
}

func TestGetOrComputeFallsBackWhenCacheIsDown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}

	// The follow-up SET has no expectation, so the mock fails it as well.
	mock.ExpectGet("budgets:u1").SetErr(errors.New("connection refused"))

	calls := 0
	got, err := GetOrCompute(context.Background(), client, "budgets:u1", time.Minute, func(context.Context) ([]entry, error) {
		calls++
		return []entry{{Name: "fuel", Total: 40}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []entry{{Name: "fuel", Total: 40}}, got)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeWithoutClient(t *testing.T) {
	got, err := GetOrCompute[int](context.Background(), nil, "k", time.Minute, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestInvalidate(t *testing.T) {
	mr, client := setupMiniredis(t)
	require.NoError(t, mr.Set("budgets:u1", "[]"))
	require.NoError(t, mr.Set("transactions:u1", "[]"))
	require.NoError(t, mr.Set("budgets:u2", "[]"))

	Invalidate(context.Background(), client, "budgets:u1", "transactions:u1")

	assert.False(t, mr.Exists("budgets:u1"))
	assert.False(t, mr.Exists("transactions:u1"))
	assert.True(t, mr.Exists("budgets:u2"))
}

func TestInvalidateSwallowsFailures(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}
	mock.ExpectDel("budgets:u1").SetErr(errors.New("connection refused"))

	assert.NotPanics(t, func() {
		Invalidate(context.Background(), client, "budgets:u1")
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
