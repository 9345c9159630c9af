// Package cachetest provides an in-memory cache.Client for service tests.
package cachetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"Finary/internal/cache"
)

var ErrUnavailable = errors.New("cachetest: unavailable")

type Memory struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	deleted []string

	// FailReads, FailWrites and FailDeletes make the matching calls return
	// ErrUnavailable.
	FailReads   bool
	FailWrites  bool
	FailDeletes bool
}

var _ cache.Client = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, ErrUnavailable
	}
	v, ok := m.entries[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrUnavailable
	}
	m.entries[key] = append([]byte(nil), value...)
	m.ttls[key] = ttl
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDeletes {
		return ErrUnavailable
	}
	for _, k := range keys {
		delete(m.entries, k)
		delete(m.ttls, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *Memory) Ping(context.Context) error {
	if m.FailReads {
		return ErrUnavailable
	}
	return nil
}

func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func (m *Memory) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

// Put seeds a raw entry, bypassing FailWrites.
func (m *Memory) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// Deleted lists every key passed to a successful Delete, in call order.
func (m *Memory) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
