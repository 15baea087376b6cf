package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/queue"
	"github.com/homeclean-next/internal/repository"
)

// CreateBookingInput 创建预约参数，服务标题与金额为客户端冗余快照
type CreateBookingInput struct {
	UserID          uint
	ServiceID       uint
	VariantID       *uint
	ServiceTitle    string
	BookingDate     string
	BookingTime     string
	DurationMinutes int
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Address         string
	Quantity        int
	UserInputs      models.JSON
	TotalAmount     models.Money
	Notes           string
	ClientRef       string
	Locale          string
}

// BookingListInput 预约列表参数
type BookingListInput struct {
	UserID   uint
	Status   string
	Page     int
	PageSize int
}

// BookingService 预约服务
type BookingService struct {
	cfg          config.BookingConfig
	bookingRepo  repository.BookingRepository
	catalog      *CatalogService
	notification *NotificationService
	queueClient  *queue.Client
	now          func() time.Time
}

// NewBookingService 创建预约服务
func NewBookingService(
	cfg config.BookingConfig,
	bookingRepo repository.BookingRepository,
	catalog *CatalogService,
	notification *NotificationService,
	queueClient *queue.Client,
) *BookingService {
	return &BookingService{
		cfg:          cfg,
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		notification: notification,
		queueClient:  queueClient,
		now:          time.Now,
	}
}

// Create 创建预约
// 每次调用只创建一条预约，多条之间没有事务关系
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*models.ServiceBooking, error) {
	if input.UserID == 0 || input.ServiceID == 0 {
		return nil, ErrInvalidInput
	}
	service, err := s.catalog.Get(input.ServiceID)
	if err != nil {
		return nil, err
	}

	startAt, err := s.validateSchedule(input.BookingDate, input.BookingTime)
	if err != nil {
		return nil, err
	}
	if err := validateContact(input); err != nil {
		return nil, err
	}
	if !input.TotalAmount.Decimal.IsPositive() {
		return nil, ErrBookingAmountInvalid
	}

	title := strings.TrimSpace(input.ServiceTitle)
	if title == "" {
		title = service.Title
	}
	duration := input.DurationMinutes
	if duration <= 0 {
		duration = service.DurationMinutes
	}
	if duration <= 0 {
		duration = s.cfg.DefaultDuration
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	currency := strings.TrimSpace(s.cfg.Currency)
	if currency == "" {
		currency = "EUR"
	}

	booking := &models.ServiceBooking{
		BookingNo:       generateBookingNo(s.now()),
		UserID:          input.UserID,
		ServiceID:       service.ID,
		VariantID:       input.VariantID,
		ServiceTitle:    title,
		BookingDate:     strings.TrimSpace(input.BookingDate),
		BookingTime:     strings.TrimSpace(input.BookingTime),
		DurationMinutes: duration,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		Address:         strings.TrimSpace(input.Address),
		Quantity:        quantity,
		UserInputs:      normalizeUserInputs(input.UserInputs),
		TotalAmount:     input.TotalAmount,
		Currency:        currency,
		Notes:           strings.TrimSpace(input.Notes),
		ClientRef:       strings.TrimSpace(input.ClientRef),
		Status:          constants.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, err
	}
	logger.Infow("booking_created",
		"booking_id", booking.ID,
		"booking_no", booking.BookingNo,
		"user_id", booking.UserID,
		"service_id", booking.ServiceID,
	)

	s.notification.NotifyBooking(ctx, booking, constants.BookingEventCreated, input.Locale)

	completeAt := startAt.Add(time.Duration(duration) * time.Minute)
	if err := s.queueClient.EnqueueBookingAutoComplete(queue.BookingAutoCompletePayload{BookingID: booking.ID}, completeAt.Sub(s.now())); err != nil {
		logger.Warnw("booking_enqueue_auto_complete_failed", "booking_id", booking.ID, "error", err)
	}
	return booking, nil
}

// List 用户预约列表
func (s *BookingService) List(input BookingListInput) ([]models.ServiceBooking, int64, error) {
	if input.UserID == 0 {
		return nil, 0, ErrInvalidInput
	}
	page, pageSize := input.Page, input.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	bookings, total, err := s.bookingRepo.ListByUser(repository.BookingListFilter{
		UserID:   input.UserID,
		Status:   strings.TrimSpace(input.Status),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	if bookings == nil {
		bookings = []models.ServiceBooking{}
	}
	return bookings, total, nil
}

// Get 用户预约详情
func (s *BookingService) Get(userID, id uint) (*models.ServiceBooking, error) {
	if userID == 0 || id == 0 {
		return nil, ErrBookingNotFound
	}
	booking, err := s.bookingRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// Cancel 用户取消预约，仅 pending / confirmed 可取消
func (s *BookingService) Cancel(ctx context.Context, userID, id uint, locale string) (*models.ServiceBooking, error) {
	booking, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if !isBookingCancellable(booking.Status) {
		return nil, ErrBookingNotCancellable
	}
	now := s.now()
	if err := s.bookingRepo.UpdateStatus(booking.ID, constants.BookingStatusCancelled, now); err != nil {
		return nil, err
	}
	booking.Status = constants.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.UpdatedAt = now
	logger.Infow("booking_cancelled", "booking_id", booking.ID, "user_id", userID)

	s.notification.NotifyBooking(ctx, booking, constants.BookingEventCancelled, locale)
	return booking, nil
}

// AutoComplete 到期后把未取消的预约标记为完成，由队列任务调用
func (s *BookingService) AutoComplete(bookingID uint) error {
	if bookingID == 0 {
		return nil
	}
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		return err
	}
	if booking == nil || !isBookingCancellable(booking.Status) {
		return nil
	}
	return s.bookingRepo.UpdateStatus(booking.ID, constants.BookingStatusCompleted, s.now())
}

// CompleteOverdue 兜底：把日期已过的有效预约批量标记为完成
func (s *BookingService) CompleteOverdue() (int64, error) {
	today := s.now().Format(constants.BookingDateLayout)
	count, err := s.bookingRepo.CompleteBefore(today, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Infow("booking_complete_overdue", "count", count)
	}
	return count, nil
}

func (s *BookingService) validateSchedule(date, clock string) (time.Time, error) {
	day, err := time.ParseInLocation(constants.BookingDateLayout, strings.TrimSpace(date), time.Local)
	if err != nil {
		return time.Time{}, ErrBookingDateInvalid
	}
	at, err := time.ParseInLocation(constants.BookingTimeLayout, strings.TrimSpace(clock), time.Local)
	if err != nil {
		return time.Time{}, ErrBookingTimeInvalid
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if !s.cfg.AllowPastDates && day.Before(today) {
		return time.Time{}, ErrBookingDatePast
	}
	if s.cfg.MaxDaysAhead > 0 && day.After(today.AddDate(0, 0, s.cfg.MaxDaysAhead)) {
		return time.Time{}, ErrBookingDateTooFar
	}
	return time.Date(day.Year(), day.Month(), day.Day(), at.Hour(), at.Minute(), 0, 0, time.Local), nil
}

func validateContact(input CreateBookingInput) error {
	if strings.TrimSpace(input.CustomerName) == "" ||
		strings.TrimSpace(input.CustomerPhone) == "" ||
		strings.TrimSpace(input.Address) == "" {
		return ErrBookingContactInvalid
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(input.CustomerEmail)); err != nil {
		return ErrBookingContactInvalid
	}
	return nil
}

func isBookingCancellable(status string) bool {
	switch status {
	case constants.BookingStatusPending, constants.BookingStatusConfirmed:
		return true
	default:
		return false
	}
}

func generateBookingNo(now time.Time) string {
	return fmt.Sprintf("HC%s%s", now.Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
