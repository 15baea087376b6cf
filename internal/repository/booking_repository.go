package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/models"

	"gorm.io/gorm"
)

// BookingRepository 预约数据访问接口
type BookingRepository interface {
	Create(booking *models.ServiceBooking) error
	GetByID(userID, id uint) (*models.ServiceBooking, error)
	GetByNo(bookingNo string) (*models.ServiceBooking, error)
	FindByID(id uint) (*models.ServiceBooking, error)
	ListByUser(filter BookingListFilter) ([]models.ServiceBooking, int64, error)
	UpdateStatus(id uint, status string, at time.Time) error
	CompleteBefore(date string, at time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormBookingRepository
}

// GormBookingRepository GORM 实现
type GormBookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预约仓库
func NewBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBookingRepository) WithTx(tx *gorm.DB) *GormBookingRepository {
	if tx == nil {
		return r
	}
	return &GormBookingRepository{db: tx}
}

// Create 创建预约
func (r *GormBookingRepository) Create(booking *models.ServiceBooking) error {
	return r.db.Create(booking).Error
}

// GetByID 获取用户自己的预约，不存在时返回 nil
func (r *GormBookingRepository) GetByID(userID, id uint) (*models.ServiceBooking, error) {
	var booking models.ServiceBooking
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// FindByID 不限用户按 ID 获取，供后台任务使用
func (r *GormBookingRepository) FindByID(id uint) (*models.ServiceBooking, error) {
	var booking models.ServiceBooking
	if err := r.db.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// GetByNo 按预约编号获取
func (r *GormBookingRepository) GetByNo(bookingNo string) (*models.ServiceBooking, error) {
	var booking models.ServiceBooking
	if err := r.db.Where("booking_no = ?", bookingNo).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// ListByUser 用户预约列表，按创建时间倒序
func (r *GormBookingRepository) ListByUser(filter BookingListFilter) ([]models.ServiceBooking, int64, error) {
	query := r.db.Model(&models.ServiceBooking{}).Where("user_id = ?", filter.UserID)
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.DateFrom != "" {
		query = query.Where("booking_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("booking_date <= ?", filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.ServiceBooking
	if err := query.Scopes(paginate(filter.Page, filter.PageSize)).Order("created_at desc, id desc").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// UpdateStatus 更新预约状态，取消时记录取消时间
func (r *GormBookingRepository) UpdateStatus(id uint, status string, at time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": at,
	}
	if status == constants.BookingStatusCancelled {
		updates["cancelled_at"] = at
	}
	return r.db.Model(&models.ServiceBooking{}).Where("id = ?", id).Updates(updates).Error
}

// CompleteBefore 将预约日期早于 date 且仍有效的预约标记为完成
func (r *GormBookingRepository) CompleteBefore(date string, at time.Time) (int64, error) {
	result := r.db.Model(&models.ServiceBooking{}).
		Where("status IN ?", []string{constants.BookingStatusPending, constants.BookingStatusConfirmed}).
		Where("booking_date < ?", date).
		Updates(map[string]interface{}{
			"status":     constants.BookingStatusCompleted,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}

// paginate 分页 scope，pageSize 非正数时不分页
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}
