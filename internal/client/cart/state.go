package cart

import (
	"github.com/homeclean-next/internal/client/apiclient"
	"github.com/homeclean-next/internal/models"

	"github.com/shopspring/decimal"
)

// State 购物车生命周期
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// LineStatus 购物车行状态
type LineStatus string

const (
	// LinePending 已在本地应用、等待服务端确认
	LinePending LineStatus = "pending"
	// LineCommitted 与服务端一致
	LineCommitted LineStatus = "committed"
)

// Line 内存中的购物车行
type Line struct {
	models.CartItem
	Status LineStatus
}

// snapshot 缓存内容
// UserID 为写入时的登录用户，读取时与当前用户不一致视为未命中
type snapshot struct {
	UserID  uint                  `json:"user_id"`
	Items   []models.CartItem     `json:"items"`
	Summary apiclient.CartSummary `json:"summary"`
}

func emptySummary() apiclient.CartSummary {
	return apiclient.CartSummary{TotalPrice: models.NewMoneyFromDecimal(decimal.Zero)}
}

// adjustSummary 按行的数量与单价增减汇总
func adjustSummary(summary apiclient.CartSummary, unit models.Money, qtyDelta int) apiclient.CartSummary {
	summary.TotalItems += qtyDelta
	if summary.TotalItems < 0 {
		summary.TotalItems = 0
	}
	total := summary.TotalPrice.Decimal.Add(unit.Decimal.Mul(decimal.NewFromInt(int64(qtyDelta))))
	if total.IsNegative() {
		total = decimal.Zero
	}
	summary.TotalPrice = models.NewMoneyFromDecimal(total)
	return summary
}

func committedLines(items []models.CartItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{CartItem: item, Status: LineCommitted})
	}
	return lines
}
