package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/homeclean-next/internal/cache"
	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/pricing"
	"github.com/homeclean-next/internal/repository"
)

// CatalogService 服务目录
type CatalogService struct {
	serviceRepo repository.ServiceRepository
	cacheTTL    time.Duration
}

// NewCatalogService 创建服务目录
func NewCatalogService(serviceRepo repository.ServiceRepository, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo, cacheTTL: cacheTTL}
}

// CatalogListInput 目录查询参数
type CatalogListInput struct {
	Category string
	Search   string
}

// Quote 报价结果
type Quote struct {
	Service         *models.Service
	Variant         *models.ServiceVariant
	Title           string
	Price           models.Money  // 单价快照（fixed 价或起步价）
	CalculatedPrice *models.Money // 按测量值计算的价格，fixed 时为空
	DurationMinutes int
}

// List 上架服务列表（含规格），结果写入 Redis
func (s *CatalogService) List(ctx context.Context, input CatalogListInput) ([]models.Service, error) {
	category := strings.TrimSpace(input.Category)
	search := strings.TrimSpace(input.Search)

	if cached, hit, err := cache.GetServiceList(ctx, category, search); err != nil {
		logger.Warnw("catalog_cache_read_failed", "error", err)
	} else if hit {
		return cached, nil
	}

	services, err := s.serviceRepo.List(repository.ServiceListFilter{
		Category:     category,
		Search:       search,
		OnlyActive:   true,
		WithVariants: true,
	})
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []models.Service{}
	}
	if err := cache.SetServiceList(ctx, category, search, services, s.cacheTTL); err != nil {
		logger.Warnw("catalog_cache_write_failed", "error", err)
	}
	return services, nil
}

// Get 获取上架服务详情
func (s *CatalogService) Get(id uint) (*models.Service, error) {
	if id == 0 {
		return nil, ErrServiceNotFound
	}
	service, err := s.serviceRepo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}
	if !service.IsActive {
		return nil, ErrServiceUnavailable
	}
	return service, nil
}

// Create 新增服务并使目录缓存失效
func (s *CatalogService) Create(ctx context.Context, service *models.Service) error {
	if service == nil || strings.TrimSpace(service.Slug) == "" || strings.TrimSpace(service.Title) == "" {
		return ErrInvalidInput
	}
	if err := s.serviceRepo.Create(service); err != nil {
		return err
	}
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
	return nil
}

// QuoteFor 根据服务、规格与用户输入计算价格快照
func (s *CatalogService) QuoteFor(serviceID uint, variantID *uint, inputs map[string]interface{}) (*Quote, error) {
	service, err := s.Get(serviceID)
	if err != nil {
		return nil, err
	}
	var variant *models.ServiceVariant
	if variantID != nil && *variantID != 0 {
		variant, err = s.serviceRepo.GetVariant(service.ID, *variantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || !variant.IsActive {
			return nil, ErrVariantNotFound
		}
	}

	rule := models.PricingRule(service, variant)
	measurement, err := pricing.MeasurementFromInputs(inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	amount, calculated, err := rule.Quote(measurement)
	if err != nil {
		return nil, translatePricingError(err)
	}

	quote := &Quote{
		Service:         service,
		Variant:         variant,
		Title:           service.Title,
		Price:           models.NewMoneyFromDecimal(rule.Price),
		DurationMinutes: service.DurationMinutes,
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
	}
	return quote, nil
}

func translatePricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrMeasurementRequired):
		return ErrMeasurementRequired
	case errors.Is(err, pricing.ErrMeasurementOutOfRange):
		// 保留 BoundsError 以便上层读取范围
		return fmt.Errorf("%w: %w", ErrMeasurementOutOfRange, err)
	default:
		return err
	}
}
