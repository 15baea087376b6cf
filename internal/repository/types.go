package repository

// ServiceListFilter 查询服务目录的过滤条件
type ServiceListFilter struct {
	Category     string
	Search       string
	OnlyActive   bool
	WithVariants bool
}

// BookingListFilter 查询预约列表的过滤条件
type BookingListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
	DateFrom string // YYYY-MM-DD
	DateTo   string // YYYY-MM-DD
}
