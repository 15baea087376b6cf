package constants

// 服务计价方式
const (
	PricingModeFixed   = "fixed"
	PricingModePerUnit = "per_unit"
)

// 预约状态常量
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 预约日期与时间格式
const (
	BookingDateLayout = "2006-01-02"
	BookingTimeLayout = "15:04"
)

// 通知渠道
const (
	NotifyChannelEmail    = "email"
	NotifyChannelWhatsApp = "whatsapp"
)

// 通知接收方
const (
	NotifyAudienceCustomer = "customer"
	NotifyAudienceAdmin    = "admin"
)

// 购物车单个服务最大数量
const CartMaxQuantity = 20

// 用户输入中的测量值字段
const UserInputMeasurementKey = "measurement"

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskBookingNotify       = "booking:notify"
	TaskBookingAutoComplete = "booking:auto_complete"
)

// 预约事件
const (
	BookingEventCreated   = "created"
	BookingEventCancelled = "cancelled"
)
