package models

import "time"

// ServiceBooking 服务预约，携带下单时的冗余快照
type ServiceBooking struct {
	ID              uint       `gorm:"primarykey" json:"id"`                                            // 主键
	BookingNo       string     `gorm:"uniqueIndex;type:varchar(40);not null" json:"booking_no"`         // 预约编号
	UserID          uint       `gorm:"not null;index" json:"user_id"`                                   // 用户ID
	ServiceID       uint       `gorm:"not null;index" json:"service_id"`                                // 服务ID
	VariantID       *uint      `json:"variant_id,omitempty"`                                            // 规格ID
	ServiceTitle    string     `gorm:"type:varchar(200);not null" json:"service_title"`                 // 服务标题快照
	BookingDate     string     `gorm:"type:varchar(10);not null;index" json:"booking_date"`             // 日期 YYYY-MM-DD
	BookingTime     string     `gorm:"type:varchar(5);not null" json:"booking_time"`                    // 时间 HH:MM
	DurationMinutes int        `gorm:"not null;default:0" json:"duration_minutes"`                      // 时长（分钟）
	CustomerName    string     `gorm:"type:varchar(100);not null" json:"customer_name"`                 // 联系人
	CustomerEmail   string     `gorm:"type:varchar(200);not null" json:"customer_email"`                // 联系邮箱
	CustomerPhone   string     `gorm:"type:varchar(50);not null" json:"customer_phone"`                 // 联系电话
	Address         string     `gorm:"type:varchar(500);not null" json:"address"`                       // 服务地址
	Quantity        int        `gorm:"not null;default:1" json:"quantity"`                              // 数量
	UserInputs      JSON       `gorm:"type:text" json:"user_inputs"`                                    // 用户输入快照
	TotalAmount     Money      `gorm:"type:decimal(20,2);not null" json:"total_amount"`                 // 金额
	Currency        string     `gorm:"type:varchar(10);not null;default:'EUR'" json:"currency"`         // 币种
	Notes           string     `gorm:"type:text" json:"notes"`                                          // 备注
	ClientRef       string     `gorm:"type:varchar(64);index" json:"client_ref,omitempty"`              // 客户端确认号
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // 状态
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`                                          // 取消时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt       time.Time  `json:"updated_at"`                                                      // 更新时间
}

// TableName 指定表名
func (ServiceBooking) TableName() string {
	return "service_bookings"
}
