package service

import (
	"context"
	"errors"
	"testing"

	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/pricing"
)

func TestCatalogServiceListOnlyActive(t *testing.T) {
	env := newServiceTestEnv(t, "catalog_list")
	env.seedFixedService(t, "regular", "49.90")
	paused := env.seedFixedService(t, "paused", "10.00")
	if err := env.db.Model(&paused).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	services, err := env.catalog.List(context.Background(), CatalogListInput{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(services) != 1 || services[0].Slug != "regular" {
		t.Fatalf("expected only active service, got %+v", services)
	}
	if _, err := env.catalog.Get(paused.ID); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestCatalogServiceQuoteWithVariant(t *testing.T) {
	env := newServiceTestEnv(t, "catalog_quote_variant")
	svc := env.seedFixedService(t, "office", "80.00")
	variant := models.ServiceVariant{
		ServiceID:       svc.ID,
		Name:            "Large",
		PricingMode:     "fixed",
		Price:           models.MustMoney("140.00"),
		DurationMinutes: 240,
		IsActive:        true,
	}
	if err := env.db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	quote, err := env.catalog.QuoteFor(svc.ID, &variant.ID, nil)
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.Title != "Service office (Large)" {
		t.Fatalf("unexpected title %q", quote.Title)
	}
	if quote.Price.String() != "140.00" || quote.DurationMinutes != 240 {
		t.Fatalf("variant should override price and duration: %+v", quote)
	}

	missing := uint(9999)
	if _, err := env.catalog.QuoteFor(svc.ID, &missing, nil); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestCatalogServiceQuoteOutOfRangeKeepsBounds(t *testing.T) {
	env := newServiceTestEnv(t, "catalog_quote_bounds")
	svc := env.seedPerUnitService(t, "deep", "60.00", "2.50", "10", "300")

	_, err := env.catalog.QuoteFor(svc.ID, nil, map[string]interface{}{"measurement": 5})
	if !errors.Is(err, ErrMeasurementOutOfRange) {
		t.Fatalf("expected ErrMeasurementOutOfRange, got %v", err)
	}
	var bounds *pricing.BoundsError
	if !errors.As(err, &bounds) {
		t.Fatalf("expected BoundsError in chain, got %v", err)
	}
	if bounds.MinString() != "10" || bounds.MaxString() != "300" {
		t.Fatalf("unexpected bounds %s-%s", bounds.MinString(), bounds.MaxString())
	}

	if _, err := env.catalog.QuoteFor(svc.ID, nil, map[string]interface{}{"measurement": "abc"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
