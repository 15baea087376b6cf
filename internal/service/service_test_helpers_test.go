package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	services repository.ServiceRepository
	carts    repository.CartRepository
	bookings repository.BookingRepository
	catalog  *CatalogService
}

func newServiceTestEnv(t *testing.T, name string) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	serviceRepo := repository.NewServiceRepository(db)
	return &serviceTestEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		services: serviceRepo,
		carts:    repository.NewCartRepository(db),
		bookings: repository.NewBookingRepository(db),
		catalog:  NewCatalogService(serviceRepo, 0),
	}
}

func (e *serviceTestEnv) seedFixedService(t *testing.T, slug, price string) models.Service {
	t.Helper()
	service := models.Service{
		Slug:            slug,
		Title:           "Service " + slug,
		Category:        "regular",
		PricingMode:     "fixed",
		BasePrice:       models.MustMoney(price),
		DurationMinutes: 120,
		IsActive:        true,
	}
	if err := e.db.Create(&service).Error; err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	return service
}

func (e *serviceTestEnv) seedPerUnitService(t *testing.T, slug, base, unit, min, max string) models.Service {
	t.Helper()
	minM := models.MustMoney(min)
	maxM := models.MustMoney(max)
	service := models.Service{
		Slug:            slug,
		Title:           "Service " + slug,
		Category:        "deep",
		PricingMode:     "per_unit",
		BasePrice:       models.MustMoney(base),
		UnitPrice:       models.MustMoney(unit),
		UnitLabel:       "m2",
		MinMeasurement:  &minM,
		MaxMeasurement:  &maxM,
		DurationMinutes: 180,
		IsActive:        true,
	}
	if err := e.db.Create(&service).Error; err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	return service
}

func (e *serviceTestEnv) seedUser(t *testing.T, email string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "hash", Status: "active"}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func testBookingConfig() config.BookingConfig {
	return config.BookingConfig{
		Currency:        "EUR",
		MaxDaysAhead:    30,
		NotifyAdmin:     true,
		NotifyCustomer:  true,
		DefaultDuration: 120,
	}
}
