// Package cache holds the per-user read-through cache that sits in front of
// the relational store. The store is always the source of truth: entries are
// deleted after every mutation and rebuilt lazily on the next read.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrMiss is returned by Client.Get when the key does not exist.
var ErrMiss = errors.New("cache: miss")

type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

func BudgetsKey(userID ulid.ULID) string {
	return "budgets:" + userID.String()
}

// TransactionsKey is only ever deleted. Nothing populates it today; it is
// invalidated so a future transaction list cache stays coherent.
func TransactionsKey(userID ulid.ULID) string {
	return "transactions:" + userID.String()
}

func CategoriesKey(userID ulid.ULID) string {
	return "categories:" + userID.String()
}

func GoalsKey(userID ulid.ULID) string {
	return "goals:" + userID.String()
}

// LedgerKeys are the families touched by any budget or transaction mutation.
func LedgerKeys(userID ulid.ULID) []string {
	return []string{BudgetsKey(userID), TransactionsKey(userID)}
}
