//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.ServiceBooking{},
		&models.CartItem{},
		&models.ServiceVariant{},
		&models.Service{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresServiceSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	seedRepositoryService(t, db, "deep-clean", "Deep Clean", "149.00", true)
	seedRepositoryService(t, db, "office", "Office Cleaning", "99.00", true)

	repo := NewServiceRepository(db)
	services, err := repo.List(ServiceListFilter{Search: "DEEP", OnlyActive: true})
	if err != nil {
		t.Fatalf("list services failed: %v", err)
	}
	if len(services) != 1 || services[0].Slug != "deep-clean" {
		t.Fatalf("expected deep-clean only, got %+v", services)
	}
}

func TestPostgresCompleteBeforeSkipsCancelled(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	user := seedRepositoryUser(t, db, "pg@example.com")
	service := seedRepositoryService(t, db, "regular", "Regular", "89.99", true)
	repo := NewBookingRepository(db)

	statuses := []string{constants.BookingStatusPending, constants.BookingStatusCancelled}
	for i, status := range statuses {
		booking := &models.ServiceBooking{
			BookingNo:     "HCPG" + status,
			UserID:        user.ID,
			ServiceID:     service.ID,
			ServiceTitle:  service.Title,
			BookingDate:   "2020-01-0" + string(rune('1'+i)),
			BookingTime:   "09:00",
			CustomerName:  "PG",
			CustomerEmail: "pg@example.com",
			CustomerPhone: "+351900000000",
			Address:       "Rua 1",
			Quantity:      1,
			TotalAmount:   models.MustMoney("89.99"),
			Status:        status,
		}
		if err := repo.Create(booking); err != nil {
			t.Fatalf("create booking failed: %v", err)
		}
	}

	count, err := repo.CompleteBefore(time.Now().Format(constants.BookingDateLayout), time.Now())
	if err != nil {
		t.Fatalf("complete overdue failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 completed booking, got %d", count)
	}
}
