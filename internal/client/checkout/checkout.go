// Package checkout 购物车转预约
// 每个购物车行单独创建一条预约，全部并发发出；任意失败时已创建的预约不回滚，购物车保留
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/homeclean-next/internal/client/alert"
	"github.com/homeclean-next/internal/client/apiclient"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput = errors.New("checkout: invalid input")
	ErrEmptyCart    = errors.New("checkout: cart is empty")
)

// Booker 创建单条预约
type Booker interface {
	CreateBooking(ctx context.Context, req apiclient.CreateBookingRequest) (*models.ServiceBooking, error)
}

// CartClearer 预约全部成功后清空购物车
type CartClearer interface {
	ClearCart(ctx context.Context) error
}

// Input 结账参数
type Input struct {
	Items         []models.CartItem `validate:"min=1"`
	BookingDate   string            `validate:"required,datetime=2006-01-02"`
	BookingTime   string            `validate:"required,datetime=15:04"`
	CustomerName  string            `validate:"required,max=100"`
	CustomerEmail string            `validate:"required,email,max=200"`
	CustomerPhone string            `validate:"required,min=6,max=50"`
	Address       string            `validate:"required,max=500"`
	Notes         string            `validate:"max=1000"`
}

// Confirmation 结账结果
// OrderID 由客户端生成，仅用于展示，同时作为 client_ref 写入每条预约
type Confirmation struct {
	OrderID  string
	Bookings []models.ServiceBooking
	Total    models.Money
}

// Failure 单条预约失败
type Failure struct {
	Item models.CartItem
	Err  error
}

// PartialFailureError 部分或全部预约失败
// Created 中的预约已在服务端生效，不会回滚
type PartialFailureError struct {
	Created []models.ServiceBooking
	Failed  []Failure
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("checkout: %d of %d bookings failed", len(e.Failed), len(e.Failed)+len(e.Created))
}

// Unwrap 暴露每条失败的原因
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// Options 结账参数
type Options struct {
	Booker  Booker
	Cart    CartClearer
	Alerter alert.Alerter
	Locale  string
}

// Service 结账编排
type Service struct {
	booker   Booker
	cart     CartClearer
	alerter  alert.Alerter
	locale   string
	validate *validator.Validate
	now      func() time.Time
	suffix   func() string
}

// New 创建结账编排
func New(opts Options) *Service {
	alerter := opts.Alerter
	if alerter == nil {
		alerter = alert.Nop
	}
	return &Service{
		booker:   opts.Booker,
		cart:     opts.Cart,
		alerter:  alerter,
		locale:   i18n.NormalizeLocale(opts.Locale),
		validate: validator.New(),
		now:      time.Now,
		suffix:   randomSuffix,
	}
}

// Checkout 把购物车行转成预约
func (s *Service) Checkout(ctx context.Context, in Input) (*Confirmation, error) {
	if len(in.Items) == 0 {
		s.alerter.Alert(i18n.T(s.locale, "alert.title.notice"), i18n.T(s.locale, "alert.checkout_empty"))
		return nil, ErrEmptyCart
	}
	if err := s.validate.Struct(in); err != nil {
		s.alerter.Alert(i18n.T(s.locale, "alert.title.notice"), i18n.T(s.locale, "alert.checkout_invalid"))
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	orderID := s.orderID()
	requests := buildRequests(in, orderID)
	bookings := make([]*models.ServiceBooking, len(requests))
	errs := make([]error, len(requests))

	var g errgroup.Group
	for i := range requests {
		i := i
		g.Go(func() error {
			bookings[i], errs[i] = s.booker.CreateBooking(ctx, requests[i])
			return errs[i]
		})
	}
	_ = g.Wait()

	created := make([]models.ServiceBooking, 0, len(requests))
	var failed []Failure
	for i := range requests {
		if errs[i] != nil {
			failed = append(failed, Failure{Item: in.Items[i], Err: errs[i]})
			continue
		}
		if bookings[i] != nil {
			created = append(created, *bookings[i])
		}
	}

	if len(failed) > 0 {
		logger.Warnw("checkout_partial_failure",
			"order_id", orderID,
			"created", len(created),
			"failed", len(failed),
			"error", failed[0].Err,
		)
		s.alertFailure(failed, len(requests))
		return nil, &PartialFailureError{Created: created, Failed: failed}
	}

	total := models.NewMoneyFromDecimal(decimal.Zero)
	for _, b := range created {
		total = total.Add(b.TotalAmount)
	}
	if s.cart != nil {
		if err := s.cart.ClearCart(ctx); err != nil {
			logger.Warnw("checkout_cart_clear_failed", "order_id", orderID, "error", err)
		}
	}
	logger.Infow("checkout_completed", "order_id", orderID, "bookings", len(created), "total", total.String())
	s.alerter.Alert(
		i18n.Sprintf(s.locale, "alert.checkout_success", orderID),
		i18n.Sprintf(s.locale, "alert.checkout_success_body", len(created)),
	)
	return &Confirmation{OrderID: orderID, Bookings: created, Total: total}, nil
}

func (s *Service) alertFailure(failed []Failure, total int) {
	title := i18n.T(s.locale, "alert.title.error")
	if len(failed) == total {
		s.alerter.Alert(title, apiclient.UserMessage(failed[0].Err, i18n.T(s.locale, "alert.checkout_failed")))
		return
	}
	s.alerter.Alert(title, i18n.Sprintf(s.locale, "alert.checkout_partial", len(failed), total))
}

func (s *Service) orderID() string {
	return fmt.Sprintf("ORD-%d-%s", s.now().UnixMilli(), s.suffix())
}

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

func buildRequests(in Input, orderID string) []apiclient.CreateBookingRequest {
	requests := make([]apiclient.CreateBookingRequest, 0, len(in.Items))
	for _, item := range in.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		requests = append(requests, apiclient.CreateBookingRequest{
			ServiceID:       item.ServiceID,
			VariantID:       item.VariantID,
			ServiceTitle:    item.Title,
			BookingDate:     strings.TrimSpace(in.BookingDate),
			BookingTime:     strings.TrimSpace(in.BookingTime),
			DurationMinutes: item.DurationMinutes,
			CustomerName:    strings.TrimSpace(in.CustomerName),
			CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
			CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
			Address:         strings.TrimSpace(in.Address),
			Quantity:        qty,
			UserInputs:      item.UserInputs,
			TotalAmount:     item.UnitAmount().Times(qty),
			Notes:           strings.TrimSpace(in.Notes),
			ClientRef:       orderID,
		})
	}
	return requests
}
