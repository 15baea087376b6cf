package service

import (
	"context"
	"strings"

	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/queue"
	"github.com/homeclean-next/internal/repository"

	"github.com/hibiken/asynq"
)

// NotificationService 预约通知：按渠道拆分任务，队列不可用时同步发送
type NotificationService struct {
	cfg         config.BookingConfig
	bookingRepo repository.BookingRepository
	email       *EmailService
	whatsapp    *WhatsAppService
	queueClient *queue.Client
}

// NewNotificationService 创建通知服务
func NewNotificationService(
	cfg config.BookingConfig,
	bookingRepo repository.BookingRepository,
	email *EmailService,
	whatsapp *WhatsAppService,
	queueClient *queue.Client,
) *NotificationService {
	return &NotificationService{
		cfg:         cfg,
		bookingRepo: bookingRepo,
		email:       email,
		whatsapp:    whatsapp,
		queueClient: queueClient,
	}
}

// NotifyBooking 预约事件通知，失败只记录日志，不影响主流程
func (s *NotificationService) NotifyBooking(ctx context.Context, booking *models.ServiceBooking, event, locale string) {
	if s == nil || booking == nil {
		return
	}
	for _, payload := range s.buildPayloads(booking, event, locale) {
		if s.queueClient.Enabled() {
			if err := s.queueClient.EnqueueBookingNotify(payload, asynq.MaxRetry(5)); err == nil {
				continue
			} else {
				logger.Warnw("booking_notify_enqueue_failed",
					"booking_id", booking.ID,
					"channel", payload.Channel,
					"audience", payload.Audience,
					"error", err,
				)
			}
		}
		if err := s.deliver(ctx, booking, payload); err != nil {
			logger.Warnw("booking_notify_send_failed",
				"booking_id", booking.ID,
				"channel", payload.Channel,
				"audience", payload.Audience,
				"error", err,
			)
		}
	}
}

// Dispatch 处理队列中的通知任务
func (s *NotificationService) Dispatch(ctx context.Context, payload queue.BookingNotifyPayload) error {
	if s == nil {
		return nil
	}
	if payload.BookingID == 0 {
		return ErrNotificationInvalid
	}
	booking, err := s.bookingRepo.FindByID(payload.BookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		logger.Warnw("booking_notify_booking_missing", "booking_id", payload.BookingID)
		return nil
	}
	return s.deliver(ctx, booking, payload)
}

func (s *NotificationService) buildPayloads(booking *models.ServiceBooking, event, locale string) []queue.BookingNotifyPayload {
	base := queue.BookingNotifyPayload{
		BookingID: booking.ID,
		Event:     event,
		Locale:    i18n.NormalizeLocale(locale),
	}
	payloads := make([]queue.BookingNotifyPayload, 0, 3)
	if s.cfg.NotifyCustomer {
		if s.email.Enabled() && strings.TrimSpace(booking.CustomerEmail) != "" {
			p := base
			p.Channel, p.Audience = constants.NotifyChannelEmail, constants.NotifyAudienceCustomer
			payloads = append(payloads, p)
		}
		if s.whatsapp.Enabled() && strings.TrimSpace(booking.CustomerPhone) != "" {
			p := base
			p.Channel, p.Audience = constants.NotifyChannelWhatsApp, constants.NotifyAudienceCustomer
			payloads = append(payloads, p)
		}
	}
	if s.cfg.NotifyAdmin && s.whatsapp.Enabled() && s.whatsapp.AdminPhone() != "" {
		p := base
		p.Channel, p.Audience = constants.NotifyChannelWhatsApp, constants.NotifyAudienceAdmin
		p.Locale = i18n.DefaultLocale
		payloads = append(payloads, p)
	}
	return payloads
}

func (s *NotificationService) deliver(ctx context.Context, booking *models.ServiceBooking, payload queue.BookingNotifyPayload) error {
	switch {
	case payload.Channel == constants.NotifyChannelEmail && payload.Audience == constants.NotifyAudienceCustomer:
		return s.email.SendBookingEmail(booking, payload.Event, payload.Locale)
	case payload.Channel == constants.NotifyChannelWhatsApp && payload.Audience == constants.NotifyAudienceCustomer:
		return s.whatsapp.SendText(ctx, booking.CustomerPhone, buildWhatsAppText(booking, payload.Event, payload.Locale, false))
	case payload.Channel == constants.NotifyChannelWhatsApp && payload.Audience == constants.NotifyAudienceAdmin:
		return s.whatsapp.SendText(ctx, s.whatsapp.AdminPhone(), buildWhatsAppText(booking, payload.Event, payload.Locale, true))
	default:
		return ErrNotificationInvalid
	}
}

func buildWhatsAppText(booking *models.ServiceBooking, event, locale string, admin bool) string {
	loc := i18n.NormalizeLocale(locale)
	if event == constants.BookingEventCancelled {
		if admin {
			return i18n.Sprintf(loc, "notify.booking.cancel_subject", booking.BookingNo)
		}
		_, body := buildBookingEmailContent(booking, event, loc)
		return body
	}
	if admin {
		return buildAdminBookingBody(booking, loc)
	}
	return buildCustomerBookingBody(booking, loc)
}
