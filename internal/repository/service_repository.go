package repository

import (
	"errors"
	"strings"

	"github.com/homeclean-next/internal/models"

	"gorm.io/gorm"
)

// ServiceRepository 服务目录数据访问接口
type ServiceRepository interface {
	List(filter ServiceListFilter) ([]models.Service, error)
	GetByID(id uint, withVariants bool) (*models.Service, error)
	GetBySlug(slug string) (*models.Service, error)
	GetVariant(serviceID, variantID uint) (*models.ServiceVariant, error)
	Create(service *models.Service) error
}

// GormServiceRepository GORM 实现
type GormServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository 创建服务仓库
func NewServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func preloadActiveVariants(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("sort_order asc, id asc")
}

// List 服务列表，按排序值升序
func (r *GormServiceRepository) List(filter ServiceListFilter) ([]models.Service, error) {
	query := r.db.Model(&models.Service{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"title", "description", "slug"})
		query = query.Where(condition, repeatLikeArgs("%"+search+"%", argCount)...)
	}
	if filter.WithVariants {
		query = query.Preload("Variants", preloadActiveVariants)
	}

	var services []models.Service
	if err := query.Order("sort_order asc, id asc").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// GetByID 根据 ID 获取服务，不存在时返回 nil
func (r *GormServiceRepository) GetByID(id uint, withVariants bool) (*models.Service, error) {
	query := r.db
	if withVariants {
		query = query.Preload("Variants", preloadActiveVariants)
	}
	var service models.Service
	if err := query.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// GetBySlug 根据 slug 获取服务
func (r *GormServiceRepository) GetBySlug(slug string) (*models.Service, error) {
	var service models.Service
	if err := r.db.Where("slug = ?", slug).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// GetVariant 获取服务下的规格
func (r *GormServiceRepository) GetVariant(serviceID, variantID uint) (*models.ServiceVariant, error) {
	var variant models.ServiceVariant
	if err := r.db.Where("id = ? AND service_id = ?", variantID, serviceID).First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// Create 创建服务（含规格）
func (r *GormServiceRepository) Create(service *models.Service) error {
	return r.db.Create(service).Error
}
