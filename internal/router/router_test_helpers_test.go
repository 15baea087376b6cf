package router

import (
	"fmt"
	"testing"
	"time"

	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/provider"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type routerTestEnv struct {
	cfg       *config.Config
	db        *gorm.DB
	container *provider.Container
}

func newRouterTestEnv(t *testing.T, name string) *routerTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := config.Defaults()
	cfg.Email.Enabled = false
	cfg.WhatsApp.Enabled = false
	cfg.Catalog.CacheTTLSeconds = 0
	return &routerTestEnv{
		cfg:       cfg,
		db:        db,
		container: provider.NewContainerWithDB(cfg, db, nil),
	}
}
