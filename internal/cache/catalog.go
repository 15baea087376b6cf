package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/homeclean-next/internal/models"
)

const catalogVersionKey = "catalog:version"

// 目录缓存按版本号分代，失效时只需自增版本，旧 key 随 TTL 过期
func catalogListKey(version int64, category, search string) string {
	return fmt.Sprintf("catalog:v%d:list:%s:%s",
		version,
		strings.ToLower(strings.TrimSpace(category)),
		strings.ToLower(strings.TrimSpace(search)),
	)
}

// GetServiceList 读取服务目录缓存
func GetServiceList(ctx context.Context, category, search string) ([]models.Service, bool, error) {
	if !Enabled() {
		return nil, false, nil
	}
	version, err := GetInt64(ctx, catalogVersionKey)
	if err != nil {
		return nil, false, err
	}
	var services []models.Service
	hit, err := GetJSON(ctx, catalogListKey(version, category, search), &services)
	if err != nil || !hit {
		return nil, hit, err
	}
	return services, true, nil
}

// SetServiceList 写入服务目录缓存
func SetServiceList(ctx context.Context, category, search string, services []models.Service, ttl time.Duration) error {
	if !Enabled() || ttl <= 0 {
		return nil
	}
	version, err := GetInt64(ctx, catalogVersionKey)
	if err != nil {
		return err
	}
	return SetJSON(ctx, catalogListKey(version, category, search), services, ttl)
}

// InvalidateCatalog 使全部目录缓存失效
func InvalidateCatalog(ctx context.Context) error {
	_, err := Incr(ctx, catalogVersionKey)
	return err
}
