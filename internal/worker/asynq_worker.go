package worker

import (
	"context"
	"errors"

	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/provider"
	"github.com/homeclean-next/internal/queue"
	"github.com/homeclean-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskBookingNotify, c.handleBookingNotify)
	mux.HandleFunc(queue.TaskBookingAutoComplete, c.handleBookingAutoComplete)
}

func (c *Consumer) handleBookingNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_booking_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseBookingNotifyPayload(task)
	if err != nil {
		logger.Warnw("worker_booking_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.BookingID == 0 {
		logger.Debugw("worker_booking_notify_skip_invalid_payload", "booking_id", payload.BookingID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_booking_notify_skip_service_nil", "booking_id", payload.BookingID)
		return nil
	}
	if err := c.NotificationService.Dispatch(ctx, payload); err != nil {
		if isPermanentNotifyError(err) {
			logger.Warnw("worker_booking_notify_dropped",
				"booking_id", payload.BookingID,
				"channel", payload.Channel,
				"audience", payload.Audience,
				"error", err,
			)
			return nil
		}
		logger.Warnw("worker_booking_notify_failed",
			"booking_id", payload.BookingID,
			"channel", payload.Channel,
			"audience", payload.Audience,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleBookingAutoComplete(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_booking_auto_complete_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseBookingAutoCompletePayload(task)
	if err != nil {
		logger.Warnw("worker_booking_auto_complete_unmarshal_failed", "error", err)
		return err
	}
	if payload.BookingID == 0 {
		logger.Debugw("worker_booking_auto_complete_skip_invalid_payload", "booking_id", payload.BookingID)
		return nil
	}
	if c.BookingService == nil {
		logger.Warnw("worker_booking_auto_complete_skip_service_nil", "booking_id", payload.BookingID)
		return nil
	}
	if err := c.BookingService.AutoComplete(payload.BookingID); err != nil {
		logger.Warnw("worker_booking_auto_complete_failed", "booking_id", payload.BookingID, "error", err)
		return err
	}
	return nil
}

// isPermanentNotifyError 配置类错误重试也不会成功
func isPermanentNotifyError(err error) bool {
	switch {
	case errors.Is(err, service.ErrEmailServiceDisabled),
		errors.Is(err, service.ErrEmailServiceNotConfigured),
		errors.Is(err, service.ErrEmailRecipientRejected),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWhatsAppDisabled),
		errors.Is(err, service.ErrWhatsAppNotConfigured),
		errors.Is(err, service.ErrNotificationInvalid):
		return true
	default:
		return false
	}
}
