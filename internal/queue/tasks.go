package queue

import (
	"encoding/json"

	"github.com/homeclean-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskBookingNotify 预约通知任务（邮件 / WhatsApp）
	TaskBookingNotify = constants.TaskBookingNotify
	// TaskBookingAutoComplete 预约到期自动完成任务
	TaskBookingAutoComplete = constants.TaskBookingAutoComplete
)

// BookingNotifyPayload 预约通知任务载荷
type BookingNotifyPayload struct {
	BookingID uint   `json:"booking_id"`
	Event     string `json:"event"`    // created / cancelled
	Channel   string `json:"channel"`  // email / whatsapp
	Audience  string `json:"audience"` // customer / admin
	Locale    string `json:"locale"`
}

// BookingAutoCompletePayload 自动完成任务载荷
type BookingAutoCompletePayload struct {
	BookingID uint `json:"booking_id"`
}

// NewBookingNotifyTask 创建预约通知任务
func NewBookingNotifyTask(payload BookingNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingNotify, body), nil
}

// NewBookingAutoCompleteTask 创建自动完成任务
func NewBookingAutoCompleteTask(payload BookingAutoCompletePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingAutoComplete, body), nil
}

// ParseBookingNotifyPayload 解析通知任务载荷
func ParseBookingNotifyPayload(task *asynq.Task) (BookingNotifyPayload, error) {
	var payload BookingNotifyPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

// ParseBookingAutoCompletePayload 解析自动完成任务载荷
func ParseBookingAutoCompletePayload(task *asynq.Task) (BookingAutoCompletePayload, error) {
	var payload BookingAutoCompletePayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
