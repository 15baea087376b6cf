package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/homeclean-next/internal/client/localstore"
	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/provider"
	"github.com/homeclean-next/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type cliEnv struct {
	db     *gorm.DB
	store  *localstore.MemoryStore
	client config.ClientConfig
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:cartctl_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	cfg := config.Defaults()
	cfg.Email.Enabled = false
	cfg.WhatsApp.Enabled = false
	cfg.Catalog.CacheTTLSeconds = 0
	srv := httptest.NewServer(router.SetupRouter(cfg, provider.NewContainerWithDB(cfg, db, nil)))
	t.Cleanup(srv.Close)

	client := cfg.Client
	client.BaseURL = srv.URL + "/api/v1"
	client.RetryBackoffMS = 0
	client.Locale = "en"
	return &cliEnv{
		db:     db,
		store:  localstore.NewMemoryStore(),
		client: client,
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
}

// exec 每次新建 app，模拟独立的命令行进程，只共享本地缓存
func (e *cliEnv) exec(args ...string) (*app, int) {
	e.out.Reset()
	e.errOut.Reset()
	a := newApp(e.client, e.store, e.out, e.errOut)
	return a, a.run(context.Background(), args)
}

func seedCatalog(t *testing.T, db *gorm.DB) (models.Service, models.Service) {
	t.Helper()
	regular := models.Service{
		Slug: "regular", Title: "Regular home clean", PricingMode: constants.PricingModeFixed,
		BasePrice: models.MustMoney("89.99"), DurationMinutes: 120, IsActive: true,
	}
	min, max := models.MustMoney("10"), models.MustMoney("300")
	windows := models.Service{
		Slug: "windows", Title: "Window cleaning", PricingMode: constants.PricingModePerUnit,
		BasePrice: models.MustMoney("40"), UnitPrice: models.MustMoney("2.5"), UnitLabel: "m2",
		MinMeasurement: &min, MaxMeasurement: &max, DurationMinutes: 60, IsActive: true,
	}
	require.NoError(t, db.Create(&regular).Error)
	require.NoError(t, db.Create(&windows).Error)
	return regular, windows
}

func TestCartctlEndToEnd(t *testing.T) {
	env := newCLIEnv(t)
	regular, windows := seedCatalog(t, env.db)
	regularID := strconv.FormatUint(uint64(regular.ID), 10)
	windowsID := strconv.FormatUint(uint64(windows.ID), 10)

	_, code := env.exec("add", "-service", regularID)
	assert.Equal(t, 1, code)
	assert.Contains(t, env.errOut.String(), "Please sign in")

	_, code = env.exec("register", "-email", "ana@example.com", "-password", "cleaning123", "-name", "Ana")
	require.Equal(t, 0, code, env.errOut.String())

	_, code = env.exec("services")
	require.Equal(t, 0, code, env.errOut.String())
	assert.Contains(t, env.out.String(), "Window cleaning")

	_, code = env.exec("add", "-service", regularID)
	require.Equal(t, 0, code, env.errOut.String())

	_, code = env.exec("add", "-service", regularID)
	assert.Equal(t, 1, code)
	assert.Contains(t, env.errOut.String(), "already in your cart")

	_, code = env.exec("add", "-service", windowsID, "-measurement", "500")
	assert.Equal(t, 1, code)
	assert.Contains(t, env.errOut.String(), "Measurement must be between")

	a, code := env.exec("add", "-service", windowsID, "-measurement", "24")
	require.Equal(t, 0, code, env.errOut.String())
	assert.Equal(t, 2, a.cart.Summary().TotalItems)
	assert.Equal(t, "149.99", a.cart.Summary().TotalPrice.String())

	var windowsLine uint
	for _, line := range a.cart.Items() {
		if line.ServiceID == windows.ID {
			windowsLine = line.ID
		}
	}
	require.NotZero(t, windowsLine)

	a, code = env.exec("qty", strconv.FormatUint(uint64(windowsLine), 10), "0")
	require.Equal(t, 0, code, env.errOut.String())
	assert.Len(t, a.cart.Items(), 1)
	assert.Equal(t, "89.99", a.cart.Summary().TotalPrice.String())

	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	a, code = env.exec("checkout",
		"-date", date, "-time", "10:00",
		"-name", "Ana Silva", "-email", "ana@example.com", "-phone", "+351912345678",
		"-address", "Rua Augusta 10, Lisboa",
	)
	require.Equal(t, 0, code, env.errOut.String())
	assert.Contains(t, env.out.String(), "order ORD-")
	assert.Empty(t, a.cart.Items())

	var bookings []models.ServiceBooking
	require.NoError(t, env.db.Find(&bookings).Error)
	require.Len(t, bookings, 1)
	assert.Equal(t, "89.99", bookings[0].TotalAmount.String())
	assert.Contains(t, bookings[0].ClientRef, "ORD-")

	_, code = env.exec("bookings")
	require.Equal(t, 0, code, env.errOut.String())
	assert.Contains(t, env.out.String(), bookings[0].BookingNo)

	_, code = env.exec("logout")
	require.Equal(t, 0, code)
	_, _, ok, err := env.store.Get(context.Background(), "auth_token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCartctlUsage(t *testing.T) {
	env := newCLIEnv(t)

	_, code := env.exec()
	assert.Equal(t, 2, code)

	_, code = env.exec("frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, env.errOut.String(), "usage: cartctl")

	_, code = env.exec("qty", "abc")
	assert.Equal(t, 2, code)
}
