package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/homeclean-next/internal/config"

	"golang.org/x/time/rate"
)

const defaultWhatsAppAPIBase = "https://graph.facebook.com/v19.0"

// WhatsAppService WhatsApp Cloud API 文本消息发送
type WhatsAppService struct {
	cfg        config.WhatsAppConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewWhatsAppService 创建 WhatsApp 发送服务
func NewWhatsAppService(cfg config.WhatsAppConfig) *WhatsAppService {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &WhatsAppService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// Enabled 是否已启用并配置
func (s *WhatsAppService) Enabled() bool {
	return s != nil && s.cfg.Enabled && s.cfg.PhoneNumberID != "" && s.cfg.AccessToken != ""
}

// AdminPhone 运营接收号码
func (s *WhatsAppService) AdminPhone() string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s.cfg.AdminPhone)
}

type whatsAppTextMessage struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             whatsAppTextBody `json:"text"`
}

type whatsAppTextBody struct {
	Body string `json:"body"`
}

// SendText 发送文本消息，号码只保留数字
func (s *WhatsAppService) SendText(ctx context.Context, phone, body string) error {
	if s == nil || !s.cfg.Enabled {
		return ErrWhatsAppDisabled
	}
	if s.cfg.PhoneNumberID == "" || s.cfg.AccessToken == "" {
		return ErrWhatsAppNotConfigured
	}
	to := normalizeWhatsAppPhone(phone)
	if to == "" || strings.TrimSpace(body) == "" {
		return ErrNotificationInvalid
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(whatsAppTextMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             whatsAppTextBody{Body: body},
	})
	if err != nil {
		return err
	}
	base := strings.TrimRight(strings.TrimSpace(s.cfg.APIBase), "/")
	if base == "" {
		base = defaultWhatsAppAPIBase
	}
	endpoint := fmt.Sprintf("%s/%s/messages", base, s.cfg.PhoneNumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWhatsAppSendFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrWhatsAppSendFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func normalizeWhatsAppPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
