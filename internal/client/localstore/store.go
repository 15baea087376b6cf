// Package localstore 客户端本地缓存，只记录写入时间，新鲜度由调用方判断
package localstore

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL 默认新鲜度窗口
const DefaultTTL = 5 * time.Minute

// ErrEmptyKey 缓存 key 为空
var ErrEmptyKey = errors.New("localstore: empty key")

// Store 带写入时间戳的键值存储
// 同一 key 多次写入以最后一次为准，不做跨进程加锁
type Store interface {
	// Get 读取缓存，ok 为 false 表示不存在
	Get(ctx context.Context, key string) (payload []byte, age time.Duration, ok bool, err error)
	// Put 写入缓存并记录当前时间
	Put(ctx context.Context, key string, payload []byte) error
	// Invalidate 删除缓存，不存在的 key 忽略
	Invalidate(ctx context.Context, keys ...string) error
}

// Fresh 判断缓存是否仍在新鲜度窗口内
func Fresh(age, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return age >= 0 && age < ttl
}
