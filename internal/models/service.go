package models

import (
	"time"

	"github.com/homeclean-next/internal/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service 清洁服务目录项
type Service struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                          // 主键
	Slug            string         `gorm:"uniqueIndex;type:varchar(100);not null" json:"slug"`            // 唯一标识
	Title           string         `gorm:"type:varchar(200);not null" json:"title"`                       // 标题
	Description     string         `gorm:"type:text" json:"description"`                                  // 描述
	Category        string         `gorm:"type:varchar(50);index" json:"category"`                        // 分类（regular/deep/office...）
	PricingMode     string         `gorm:"type:varchar(20);not null;default:'fixed'" json:"pricing_mode"` // 计价方式 fixed/per_unit
	BasePrice       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"`       // 固定价（per_unit 时为起步价）
	UnitPrice       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`       // 单位价格
	UnitLabel       string         `gorm:"type:varchar(20);default:''" json:"unit_label"`                 // 单位（m2/window...）
	MinMeasurement  *Money         `gorm:"type:decimal(20,2)" json:"min_measurement,omitempty"`           // 最小测量值
	MaxMeasurement  *Money         `gorm:"type:decimal(20,2)" json:"max_measurement,omitempty"`           // 最大测量值
	DurationMinutes int            `gorm:"not null;default:0" json:"duration_minutes"`                    // 预计时长（分钟）
	IsActive        bool           `gorm:"not null;default:true;index" json:"is_active"`                  // 是否上架
	SortOrder       int            `gorm:"not null;default:0" json:"sort_order"`                          // 排序
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Variants []ServiceVariant `gorm:"foreignKey:ServiceID" json:"variants,omitempty"` // 服务规格
}

// TableName 指定表名
func (Service) TableName() string {
	return "services"
}

// ServiceVariant 服务规格（如房型、面积档位）
type ServiceVariant struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                          // 主键
	ServiceID       uint      `gorm:"not null;index" json:"service_id"`                              // 所属服务
	Name            string    `gorm:"type:varchar(100);not null" json:"name"`                        // 规格名称
	PricingMode     string    `gorm:"type:varchar(20);not null;default:'fixed'" json:"pricing_mode"` // 计价方式
	Price           Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`            // 固定价
	UnitPrice       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`       // 单位价格
	MinMeasurement  *Money    `gorm:"type:decimal(20,2)" json:"min_measurement,omitempty"`           // 最小测量值
	MaxMeasurement  *Money    `gorm:"type:decimal(20,2)" json:"max_measurement,omitempty"`           // 最大测量值
	DurationMinutes int       `gorm:"not null;default:0" json:"duration_minutes"`                    // 预计时长
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`                        // 是否可选
	SortOrder       int       `gorm:"not null;default:0" json:"sort_order"`                          // 排序
	CreatedAt       time.Time `json:"created_at"`                                                    // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (ServiceVariant) TableName() string {
	return "service_variants"
}

// ActiveVariant 按 ID 查找可选规格
func (s *Service) ActiveVariant(id uint) *ServiceVariant {
	for i := range s.Variants {
		if s.Variants[i].ID == id && s.Variants[i].IsActive {
			return &s.Variants[i]
		}
	}
	return nil
}

// PricingRule 由服务与规格构建计价规则，规格覆盖服务
func PricingRule(service *Service, variant *ServiceVariant) pricing.Rule {
	if variant != nil {
		return pricing.Rule{
			Mode:      variant.PricingMode,
			Price:     variant.Price.Decimal,
			UnitPrice: variant.UnitPrice.Decimal,
			Min:       moneyPtrToDecimal(variant.MinMeasurement),
			Max:       moneyPtrToDecimal(variant.MaxMeasurement),
		}
	}
	return pricing.Rule{
		Mode:      service.PricingMode,
		Price:     service.BasePrice.Decimal,
		UnitPrice: service.UnitPrice.Decimal,
		Min:       moneyPtrToDecimal(service.MinMeasurement),
		Max:       moneyPtrToDecimal(service.MaxMeasurement),
	}
}

func moneyPtrToDecimal(m *Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	d := m.Decimal
	return &d
}
