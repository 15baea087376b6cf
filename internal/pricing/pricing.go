// Package pricing 服务计价规则，服务端与客户端共用
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/homeclean-next/internal/constants"

	"github.com/shopspring/decimal"
)

var (
	// ErrMeasurementRequired 按量计价的服务缺少测量值
	ErrMeasurementRequired = errors.New("measurement required")
	// ErrMeasurementOutOfRange 测量值超出服务允许范围
	ErrMeasurementOutOfRange = errors.New("measurement out of range")
	// ErrMeasurementInvalid 测量值无法解析
	ErrMeasurementInvalid = errors.New("measurement invalid")
	// ErrUnknownMode 未知计价方式
	ErrUnknownMode = errors.New("unknown pricing mode")
)

// BoundsError 携带允许范围的越界错误
type BoundsError struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("measurement must be between %s and %s", boundString(e.Min, "0"), boundString(e.Max, "∞"))
}

// Unwrap 便于 errors.Is(err, ErrMeasurementOutOfRange)
func (e *BoundsError) Unwrap() error {
	return ErrMeasurementOutOfRange
}

// MinString 下限的展示文本
func (e *BoundsError) MinString() string { return boundString(e.Min, "0") }

// MaxString 上限的展示文本
func (e *BoundsError) MaxString() string { return boundString(e.Max, "∞") }

func boundString(v *decimal.Decimal, fallback string) string {
	if v == nil {
		return fallback
	}
	return v.String()
}

// Rule 一条计价规则
type Rule struct {
	Mode      string
	Price     decimal.Decimal // fixed 为固定价，per_unit 为起步价
	UnitPrice decimal.Decimal
	Min       *decimal.Decimal
	Max       *decimal.Decimal
}

// PerUnit 是否按量计价
func (r Rule) PerUnit() bool {
	return strings.EqualFold(strings.TrimSpace(r.Mode), constants.PricingModePerUnit)
}

// CheckBounds 校验测量值范围
func (r Rule) CheckBounds(measurement decimal.Decimal) error {
	if measurement.LessThanOrEqual(decimal.Zero) {
		return &BoundsError{Min: r.Min, Max: r.Max}
	}
	if r.Min != nil && measurement.LessThan(*r.Min) {
		return &BoundsError{Min: r.Min, Max: r.Max}
	}
	if r.Max != nil && measurement.GreaterThan(*r.Max) {
		return &BoundsError{Min: r.Min, Max: r.Max}
	}
	return nil
}

// Quote 计算单件价格
// fixed 忽略测量值；per_unit 为 max(起步价, 单价×测量值)，calculated 为 true
func (r Rule) Quote(measurement *decimal.Decimal) (price decimal.Decimal, calculated bool, err error) {
	mode := strings.ToLower(strings.TrimSpace(r.Mode))
	switch mode {
	case "", constants.PricingModeFixed:
		return r.Price.Round(2), false, nil
	case constants.PricingModePerUnit:
		if measurement == nil {
			return decimal.Zero, false, ErrMeasurementRequired
		}
		if err := r.CheckBounds(*measurement); err != nil {
			return decimal.Zero, false, err
		}
		amount := r.UnitPrice.Mul(*measurement)
		if amount.LessThan(r.Price) {
			amount = r.Price
		}
		return amount.Round(2), true, nil
	default:
		return decimal.Zero, false, fmt.Errorf("%w: %s", ErrUnknownMode, r.Mode)
	}
}

// MeasurementFromInputs 从用户输入中读取测量值，不存在时返回 nil
func MeasurementFromInputs(inputs map[string]interface{}) (*decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	raw, ok := inputs[constants.UserInputMeasurementKey]
	if !ok || raw == nil {
		return nil, nil
	}
	var value decimal.Decimal
	switch v := raw.(type) {
	case float64:
		value = decimal.NewFromFloat(v)
	case float32:
		value = decimal.NewFromFloat32(v)
	case int:
		value = decimal.NewFromInt(int64(v))
	case int64:
		value = decimal.NewFromInt(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, ErrMeasurementInvalid
		}
		value = d
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return nil, ErrMeasurementInvalid
		}
		value = d
	case decimal.Decimal:
		value = v
	default:
		return nil, ErrMeasurementInvalid
	}
	return &value, nil
}
