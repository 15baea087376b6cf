package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/queue"
)

type capturedWhatsApp struct {
	mu       sync.Mutex
	paths    []string
	auths    []string
	messages []whatsAppTextMessage
}

func newWhatsAppTestServer(t *testing.T, status int) (*httptest.Server, *capturedWhatsApp) {
	t.Helper()
	captured := &capturedWhatsApp{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg whatsAppTextMessage
		_ = json.NewDecoder(r.Body).Decode(&msg)
		captured.mu.Lock()
		captured.paths = append(captured.paths, r.URL.Path)
		captured.auths = append(captured.auths, r.Header.Get("Authorization"))
		captured.messages = append(captured.messages, msg)
		captured.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func testWhatsAppConfig(apiBase string) config.WhatsAppConfig {
	return config.WhatsAppConfig{
		Enabled:       true,
		APIBase:       apiBase,
		PhoneNumberID: "10001",
		AccessToken:   "token-abc",
		AdminPhone:    "+351 911 111 111",
		TimeoutMS:     2000,
	}
}

func TestWhatsAppServiceSendText(t *testing.T) {
	server, captured := newWhatsAppTestServer(t, http.StatusOK)
	wa := NewWhatsAppService(testWhatsAppConfig(server.URL))

	if err := wa.SendText(context.Background(), "+351 910-000-000", "hello"); err != nil {
		t.Fatalf("send text failed: %v", err)
	}
	if len(captured.messages) != 1 {
		t.Fatalf("expected one request, got %d", len(captured.messages))
	}
	if captured.paths[0] != "/10001/messages" {
		t.Fatalf("unexpected path %s", captured.paths[0])
	}
	if captured.auths[0] != "Bearer token-abc" {
		t.Fatalf("unexpected auth header %s", captured.auths[0])
	}
	msg := captured.messages[0]
	if msg.MessagingProduct != "whatsapp" || msg.Type != "text" || msg.To != "351910000000" || msg.Text.Body != "hello" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestWhatsAppServiceErrors(t *testing.T) {
	server, _ := newWhatsAppTestServer(t, http.StatusBadRequest)
	wa := NewWhatsAppService(testWhatsAppConfig(server.URL))
	if err := wa.SendText(context.Background(), "351910000000", "hello"); !errors.Is(err, ErrWhatsAppSendFailed) {
		t.Fatalf("expected ErrWhatsAppSendFailed, got %v", err)
	}

	disabled := NewWhatsAppService(config.WhatsAppConfig{})
	if err := disabled.SendText(context.Background(), "351910000000", "hello"); !errors.Is(err, ErrWhatsAppDisabled) {
		t.Fatalf("expected ErrWhatsAppDisabled, got %v", err)
	}
	noToken := NewWhatsAppService(config.WhatsAppConfig{Enabled: true, PhoneNumberID: "1"})
	if err := noToken.SendText(context.Background(), "351910000000", "hello"); !errors.Is(err, ErrWhatsAppNotConfigured) {
		t.Fatalf("expected ErrWhatsAppNotConfigured, got %v", err)
	}
	if err := wa.SendText(context.Background(), "no digits", "hello"); !errors.Is(err, ErrNotificationInvalid) {
		t.Fatalf("expected ErrNotificationInvalid, got %v", err)
	}
}

func TestNotificationServiceNotifyBookingInline(t *testing.T) {
	env := newServiceTestEnv(t, "notify_inline")
	user := env.seedUser(t, "notify@example.com")
	svc := env.seedFixedService(t, "regular", "10.00")
	server, captured := newWhatsAppTestServer(t, http.StatusOK)

	notifier := NewNotificationService(
		testBookingConfig(),
		env.bookings,
		NewEmailService(&config.EmailConfig{}),
		NewWhatsAppService(testWhatsAppConfig(server.URL)),
		nil,
	)
	bookings := NewBookingService(testBookingConfig(), env.bookings, env.catalog, notifier, nil)
	bookings.now = func() time.Time { return time.Date(2026, 5, 10, 10, 0, 0, 0, time.Local) }

	booking, err := bookings.Create(context.Background(), validBookingInput(user.ID, svc.ID))
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}

	captured.mu.Lock()
	defer captured.mu.Unlock()
	if len(captured.messages) != 2 {
		t.Fatalf("expected customer and admin messages, got %d", len(captured.messages))
	}
	recipients := map[string]string{}
	for _, msg := range captured.messages {
		recipients[msg.To] = msg.Text.Body
	}
	if body := recipients["351910000000"]; !strings.Contains(body, booking.BookingNo) {
		t.Fatalf("customer message missing booking no: %q", body)
	}
	if body := recipients["351911111111"]; !strings.Contains(body, "New booking "+booking.BookingNo) {
		t.Fatalf("admin message unexpected: %q", body)
	}
}

func TestNotificationServiceDispatch(t *testing.T) {
	env := newServiceTestEnv(t, "notify_dispatch")
	server, captured := newWhatsAppTestServer(t, http.StatusOK)
	notifier := NewNotificationService(testBookingConfig(), env.bookings, nil, NewWhatsAppService(testWhatsAppConfig(server.URL)), nil)

	if err := notifier.Dispatch(context.Background(), queue.BookingNotifyPayload{}); !errors.Is(err, ErrNotificationInvalid) {
		t.Fatalf("expected ErrNotificationInvalid, got %v", err)
	}
	missing := queue.BookingNotifyPayload{
		BookingID: 404,
		Event:     constants.BookingEventCreated,
		Channel:   constants.NotifyChannelWhatsApp,
		Audience:  constants.NotifyAudienceAdmin,
	}
	if err := notifier.Dispatch(context.Background(), missing); err != nil {
		t.Fatalf("missing booking should be skipped, got %v", err)
	}
	if len(captured.messages) != 0 {
		t.Fatalf("no message expected for missing booking")
	}

	var nilNotifier *NotificationService
	nilNotifier.NotifyBooking(context.Background(), sampleBooking(), constants.BookingEventCreated, "en")
}
