package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/homeclean-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func seedRepositoryUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "hash", Status: "active"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func seedRepositoryService(t *testing.T, db *gorm.DB, slug, title, price string, active bool) models.Service {
	t.Helper()
	service := models.Service{
		Slug:            slug,
		Title:           title,
		Category:        "regular",
		PricingMode:     "fixed",
		BasePrice:       models.MustMoney(price),
		DurationMinutes: 120,
		IsActive:        true,
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	if !active {
		// gorm 对零值 bool 使用列默认值，需显式更新
		if err := db.Model(&service).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate service failed: %v", err)
		}
		service.IsActive = false
	}
	return service
}
