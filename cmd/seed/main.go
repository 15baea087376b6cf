package main

import (
	"context"
	"os"

	"github.com/homeclean-next/internal/cache"
	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	for _, svc := range seedServices() {
		var existing models.Service
		if err := models.DB.Where("slug = ?", svc.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Service already exists: %s", svc.Slug)
			continue
		}
		if err := models.DB.Create(&svc).Error; err != nil {
			stdLog.Printf("Failed to create service %s: %v", svc.Slug, err)
			continue
		}
		stdLog.Printf("Created service: %s (%d variants)", svc.Slug, len(svc.Variants))
	}

	demoEmail := os.Getenv("HC_DEMO_USER_EMAIL")
	if demoEmail == "" {
		demoEmail = "demo@homeclean.local"
	}
	if err := models.EnsureDemoUser(demoEmail, os.Getenv("HC_DEMO_USER_PASSWORD"), "Demo"); err != nil {
		stdLog.Printf("Failed to create demo user: %v", err)
	}

	// 目录变化后清理服务端缓存
	if err := cache.InitRedis(&cfg.Redis); err == nil {
		if err := cache.InvalidateCatalog(context.Background()); err != nil {
			stdLog.Printf("Failed to invalidate catalog cache: %v", err)
		}
		_ = cache.Close()
	}

	stdLog.Printf("Seed completed")
}

func moneyPtr(value string) *models.Money {
	m := models.MustMoney(value)
	return &m
}

func seedServices() []models.Service {
	return []models.Service{
		{
			Slug:            "regular-home-clean",
			Title:           "Regular home cleaning",
			Description:     "Dusting, vacuuming, kitchen and bathroom surfaces.",
			Category:        "regular",
			PricingMode:     constants.PricingModeFixed,
			BasePrice:       models.MustMoney("45.00"),
			DurationMinutes: 120,
			IsActive:        true,
			SortOrder:       10,
			Variants: []models.ServiceVariant{
				{Name: "Studio / T0", PricingMode: constants.PricingModeFixed, Price: models.MustMoney("40.00"), DurationMinutes: 90, IsActive: true, SortOrder: 1},
				{Name: "T1 - T2", PricingMode: constants.PricingModeFixed, Price: models.MustMoney("55.00"), DurationMinutes: 150, IsActive: true, SortOrder: 2},
				{Name: "T3+", PricingMode: constants.PricingModeFixed, Price: models.MustMoney("75.00"), DurationMinutes: 210, IsActive: true, SortOrder: 3},
			},
		},
		{
			Slug:            "deep-clean",
			Title:           "Deep cleaning",
			Description:     "Top-to-bottom clean priced by floor area.",
			Category:        "deep",
			PricingMode:     constants.PricingModePerUnit,
			BasePrice:       models.MustMoney("30.00"),
			UnitPrice:       models.MustMoney("1.50"),
			UnitLabel:       "m2",
			MinMeasurement:  moneyPtr("20"),
			MaxMeasurement:  moneyPtr("400"),
			DurationMinutes: 240,
			IsActive:        true,
			SortOrder:       20,
		},
		{
			Slug:            "window-cleaning",
			Title:           "Window cleaning",
			Description:     "Inside and outside, priced per window.",
			Category:        "windows",
			PricingMode:     constants.PricingModePerUnit,
			BasePrice:       models.MustMoney("10.00"),
			UnitPrice:       models.MustMoney("4.00"),
			UnitLabel:       "window",
			MinMeasurement:  moneyPtr("1"),
			MaxMeasurement:  moneyPtr("60"),
			DurationMinutes: 90,
			IsActive:        true,
			SortOrder:       30,
		},
		{
			Slug:            "office-clean",
			Title:           "Office cleaning",
			Description:     "After-hours office cleaning.",
			Category:        "office",
			PricingMode:     constants.PricingModePerUnit,
			BasePrice:       models.MustMoney("50.00"),
			UnitPrice:       models.MustMoney("0.90"),
			UnitLabel:       "m2",
			MinMeasurement:  moneyPtr("30"),
			MaxMeasurement:  moneyPtr("2000"),
			DurationMinutes: 180,
			IsActive:        true,
			SortOrder:       40,
		},
	}
}
