package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// cacheEntry 本地缓存行
type cacheEntry struct {
	Key      string    `gorm:"column:cache_key;primaryKey;type:varchar(191)"` // 缓存 key
	Payload  []byte    `gorm:"not null"`                                      // 缓存内容
	StoredAt time.Time `gorm:"not null"`                                      // 写入时间
}

// TableName 指定表名
func (cacheEntry) TableName() string {
	return "local_cache_entries"
}

// SQLiteStore 基于 SQLite 文件的持久缓存，跨进程重启保留
type SQLiteStore struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenSQLiteStore 打开（必要时创建）缓存文件
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("localstore: cache path is empty")
	}
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("localstore: create cache dir: %w", err)
			}
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("localstore: open sqlite: %w", err)
	}
	return NewSQLiteStore(db)
}

// NewSQLiteStore 使用已有连接创建缓存并迁移表结构
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("localstore: db is nil")
	}
	if err := db.AutoMigrate(&cacheEntry{}); err != nil {
		return nil, fmt.Errorf("localstore: migrate: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// SetClock 替换时钟，测试用
func (s *SQLiteStore) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Get 读取缓存
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, 0, false, ErrEmptyKey
	}
	var entries []cacheEntry
	if err := s.db.WithContext(ctx).Where("cache_key = ?", key).Limit(1).Find(&entries).Error; err != nil {
		return nil, 0, false, err
	}
	if len(entries) == 0 {
		return nil, 0, false, nil
	}
	entry := entries[0]
	return entry.Payload, s.now().Sub(entry.StoredAt), true, nil
}

// Put 写入缓存，已存在时覆盖
func (s *SQLiteStore) Put(ctx context.Context, key string, payload []byte) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	if payload == nil {
		payload = []byte{}
	}
	entry := cacheEntry{Key: key, Payload: payload, StoredAt: s.now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "stored_at"}),
	}).Create(&entry).Error
}

// Invalidate 删除缓存
func (s *SQLiteStore) Invalidate(ctx context.Context, keys ...string) error {
	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		if key = strings.TrimSpace(key); key != "" {
			cleaned = append(cleaned, key)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("cache_key IN ?", cleaned).Delete(&cacheEntry{}).Error
}

// Close 关闭底层连接
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
