package repository

import (
	"errors"

	"github.com/homeclean-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartItem, error)
	GetByID(userID, itemID uint) (*models.CartItem, error)
	FindByUserAndService(userID, serviceID uint) (*models.CartItem, error)
	Create(item *models.CartItem) error
	Update(item *models.CartItem) error
	DeleteByID(userID, itemID uint) (bool, error)
	ClearByUser(userID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户购物车项，按加入顺序
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Where("user_id = ?", userID).Order("created_at asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID 获取用户的某个购物车项，不存在时返回 nil
func (r *GormCartRepository) GetByID(userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindByUserAndService 查找用户购物车中的某个服务
func (r *GormCartRepository) FindByUserAndService(userID, serviceID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("user_id = ? AND service_id = ?", userID, serviceID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 新增购物车项，唯一索引冲突返回 gorm.ErrDuplicatedKey
func (r *GormCartRepository) Create(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	return r.db.Create(item).Error
}

// Update 更新数量、用户输入与计算价
func (r *GormCartRepository) Update(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	updates := map[string]interface{}{
		"quantity":         item.Quantity,
		"user_inputs":      item.UserInputs,
		"calculated_price": item.CalculatedPrice,
		"updated_at":       item.UpdatedAt,
	}
	return r.db.Model(&models.CartItem{}).Where("id = ? AND user_id = ?", item.ID, item.UserID).Updates(updates).Error
}

// DeleteByID 删除购物车项，返回是否确有删除
func (r *GormCartRepository) DeleteByID(userID, itemID uint) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
