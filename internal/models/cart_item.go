package models

import "time"

// CartItem 购物车项
// 同一用户同一服务只允许一行，由唯一索引兜底
type CartItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                         // 主键
	UserID          uint      `gorm:"not null;uniqueIndex:idx_cart_user_service" json:"user_id"`    // 用户ID
	ServiceID       uint      `gorm:"not null;uniqueIndex:idx_cart_user_service" json:"service_id"` // 服务ID
	VariantID       *uint     `json:"variant_id,omitempty"`                                         // 规格ID
	Title           string    `gorm:"type:varchar(200);not null" json:"title"`                      // 加购时的标题快照
	Price           Money     `gorm:"type:decimal(20,2);not null" json:"price"`                     // 加购时的单价快照
	DurationMinutes int       `gorm:"not null;default:0" json:"duration_minutes"`                   // 加购时的时长快照
	Quantity        int       `gorm:"not null" json:"quantity"`                                     // 数量
	CalculatedPrice *Money    `gorm:"type:decimal(20,2)" json:"calculated_price,omitempty"`         // 按测量值计算的价格
	UserInputs      JSON      `gorm:"type:text" json:"user_inputs"`                                 // 用户输入（如面积）
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time `gorm:"index" json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// UnitAmount 单件金额：有计算价时使用计算价
func (c CartItem) UnitAmount() Money {
	if c.CalculatedPrice != nil {
		return *c.CalculatedPrice
	}
	return c.Price
}

// LineTotal 行小计
func (c CartItem) LineTotal() Money {
	return c.UnitAmount().Times(c.Quantity)
}
