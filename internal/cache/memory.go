package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryClient is the in-process store used when Redis is not configured or
// not reachable. Entries expire lazily on read.
type MemoryClient struct {
	mu     sync.Mutex
	data   map[string]memoryEntry
	prefix string
	now    func() time.Time
}

func NewMemoryClient(prefix string) *MemoryClient {
	return &MemoryClient{
		data:   make(map[string]memoryEntry),
		prefix: prefix,
		now:    time.Now,
	}
}

func (m *MemoryClient) Close() error {
	return nil
}

func (m *MemoryClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[m.prefix+key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.data, m.prefix+key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *MemoryClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.data[m.prefix+key] = e
	return nil
}

func (m *MemoryClient) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.data, m.prefix+k)
	}
	return nil
}
