// Package catalog 客户端服务目录：5 分钟本地缓存与本地计价校验
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/homeclean-next/internal/client/alert"
	"github.com/homeclean-next/internal/client/apiclient"
	"github.com/homeclean-next/internal/client/localstore"
	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/pricing"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// CacheKey 服务目录缓存 key
const CacheKey = "services_catalog"

var (
	ErrServiceNotFound = errors.New("catalog: service not found")
	ErrVariantNotFound = errors.New("catalog: variant not found")
)

// Fetcher 拉取服务目录
type Fetcher interface {
	ListServices(ctx context.Context) ([]models.Service, error)
}

// Options 目录客户端参数
type Options struct {
	Fetcher Fetcher
	Store   localstore.Store
	TTL     time.Duration
	Alerter alert.Alerter
	Locale  string
}

// Client 服务目录客户端
type Client struct {
	fetcher Fetcher
	store   localstore.Store
	ttl     time.Duration
	alerter alert.Alerter
	locale  string
	group   singleflight.Group
}

// New 创建目录客户端
func New(opts Options) *Client {
	store := opts.Store
	if store == nil {
		store = localstore.NewMemoryStore()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = localstore.DefaultTTL
	}
	alerter := opts.Alerter
	if alerter == nil {
		alerter = alert.Nop
	}
	return &Client{
		fetcher: opts.Fetcher,
		store:   store,
		ttl:     ttl,
		alerter: alerter,
		locale:  i18n.NormalizeLocale(opts.Locale),
	}
}

// Services 服务目录；force 为 false 时优先使用新鲜缓存
func (c *Client) Services(ctx context.Context, force bool) ([]models.Service, error) {
	if !force {
		if services, ok := c.cached(ctx); ok {
			return services, nil
		}
	}
	v, err, _ := c.group.Do(CacheKey, func() (interface{}, error) {
		services, err := c.fetcher.ListServices(ctx)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(services); err == nil {
			if err := c.store.Put(ctx, CacheKey, payload); err != nil {
				logger.Warnw("catalog_cache_write_failed", "error", err)
			}
		}
		return services, nil
	})
	if err != nil {
		logger.Warnw("catalog_fetch_failed", "error", err)
		c.alerter.Alert(i18n.T(c.locale, "alert.title.error"), apiclient.UserMessage(err, i18n.T(c.locale, "alert.services_load_failed")))
		return nil, err
	}
	return v.([]models.Service), nil
}

func (c *Client) cached(ctx context.Context) ([]models.Service, bool) {
	payload, age, ok, err := c.store.Get(ctx, CacheKey)
	if err != nil {
		logger.Warnw("catalog_cache_read_failed", "error", err)
		return nil, false
	}
	if !ok || !localstore.Fresh(age, c.ttl) {
		return nil, false
	}
	var services []models.Service
	if err := json.Unmarshal(payload, &services); err != nil {
		return nil, false
	}
	return services, true
}

// Find 按 ID 查找服务
func (c *Client) Find(ctx context.Context, serviceID uint) (*models.Service, error) {
	services, err := c.Services(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if services[i].ID == serviceID {
			svc := services[i]
			return &svc, nil
		}
	}
	return nil, ErrServiceNotFound
}

// Invalidate 删除目录缓存
func (c *Client) Invalidate(ctx context.Context) error {
	return c.store.Invalidate(ctx, CacheKey)
}

// Quote 加入购物车前的本地报价
type Quote struct {
	Service         models.Service
	VariantID       *uint
	Title           string
	Price           models.Money
	CalculatedPrice *models.Money
	DurationMinutes int
	UserInputs      models.JSON
}

// UnitAmount 单件金额
func (q Quote) UnitAmount() models.Money {
	if q.CalculatedPrice != nil {
		return *q.CalculatedPrice
	}
	return q.Price
}

// Quote 校验测量值范围并计算价格，不发起请求
// 校验失败时提示用户并返回 pricing 包的错误
func (c *Client) Quote(service models.Service, variantID *uint, measurement *decimal.Decimal) (*Quote, error) {
	var variant *models.ServiceVariant
	if variantID != nil && *variantID != 0 {
		variant = service.ActiveVariant(*variantID)
		if variant == nil {
			return nil, ErrVariantNotFound
		}
	}
	rule := models.PricingRule(&service, variant)
	amount, calculated, err := rule.Quote(measurement)
	if err != nil {
		c.alertPricing(err)
		return nil, err
	}

	quote := &Quote{
		Service:         service,
		VariantID:       variantID,
		Title:           service.Title,
		Price:           models.NewMoneyFromDecimal(rule.Price),
		DurationMinutes: service.DurationMinutes,
		UserInputs:      models.JSON{},
	}
	if variant != nil {
		quote.Title = fmt.Sprintf("%s (%s)", service.Title, variant.Name)
		if variant.DurationMinutes > 0 {
			quote.DurationMinutes = variant.DurationMinutes
		}
	}
	if calculated {
		money := models.NewMoneyFromDecimal(amount)
		quote.CalculatedPrice = &money
		quote.UserInputs[constants.UserInputMeasurementKey] = measurement.String()
	}
	return quote, nil
}

func (c *Client) alertPricing(err error) {
	title := i18n.T(c.locale, "alert.title.notice")
	var bounds *pricing.BoundsError
	switch {
	case errors.As(err, &bounds):
		c.alerter.Alert(title, i18n.Sprintf(c.locale, "alert.measurement_invalid", bounds.MinString(), bounds.MaxString()))
	case errors.Is(err, pricing.ErrMeasurementRequired):
		c.alerter.Alert(title, i18n.T(c.locale, "alert.measurement_required"))
	default:
		c.alerter.Alert(i18n.T(c.locale, "alert.title.error"), err.Error())
	}
}
