package provider

import (
	"github.com/homeclean-next/internal/cache"
	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/queue"
	"github.com/homeclean-next/internal/repository"
	"github.com/homeclean-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	ServiceRepo repository.ServiceRepository
	CartRepo    repository.CartRepository
	BookingRepo repository.BookingRepository

	// Services
	UserAuthService     *service.UserAuthService
	CatalogService      *service.CatalogService
	CartService         *service.CartService
	BookingService      *service.BookingService
	EmailService        *service.EmailService
	WhatsAppService     *service.WhatsAppService
	NotificationService *service.NotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 使用指定数据库构建容器，测试中直接传入内存库
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ServiceRepo = repository.NewServiceRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.BookingRepo = repository.NewBookingRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CatalogService = service.NewCatalogService(c.ServiceRepo, c.Config.Catalog.CacheTTL())
	c.CartService = service.NewCartService(c.CartRepo, c.CatalogService)

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.WhatsAppService = service.NewWhatsAppService(c.Config.WhatsApp)
	c.NotificationService = service.NewNotificationService(
		c.Config.Booking,
		c.BookingRepo,
		c.EmailService,
		c.WhatsAppService,
		c.QueueClient,
	)
	c.BookingService = service.NewBookingService(
		c.Config.Booking,
		c.BookingRepo,
		c.CatalogService,
		c.NotificationService,
		c.QueueClient,
	)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
