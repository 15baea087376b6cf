package localstore

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	payload  []byte
	storedAt time.Time
}

// MemoryStore 进程内缓存
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore 创建进程内缓存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock 替换时钟，测试用
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Get 读取缓存
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, time.Duration, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, 0, false, ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, 0, false, nil
	}
	payload := make([]byte, len(entry.payload))
	copy(payload, entry.payload)
	return payload, s.now().Sub(entry.storedAt), true, nil
}

// Put 写入缓存
func (s *MemoryStore) Put(_ context.Context, key string, payload []byte) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{payload: stored, storedAt: s.now()}
	return nil
}

// Invalidate 删除缓存
func (s *MemoryStore) Invalidate(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, strings.TrimSpace(key))
	}
	return nil
}
