package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/homeclean-next/internal/config"
	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/models"
)

func sampleBooking() *models.ServiceBooking {
	return &models.ServiceBooking{
		ID:            7,
		BookingNo:     "HC20260510100000123456",
		ServiceTitle:  "Deep clean",
		BookingDate:   "2026-05-12",
		BookingTime:   "09:30",
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		CustomerPhone: "+351 910 000 000",
		Address:       "Rua Augusta 10",
		TotalAmount:   models.MustMoney("99.8"),
		Currency:      "EUR",
	}
}

func TestBuildBookingEmailContent(t *testing.T) {
	booking := sampleBooking()
	tests := []struct {
		name             string
		event            string
		locale           string
		wantSubject      string
		wantBodyContains []string
	}{
		{
			name:             "created_en",
			event:            constants.BookingEventCreated,
			locale:           i18n.LocaleEN,
			wantSubject:      "Booking received: HC20260510100000123456",
			wantBodyContains: []string{"Hi Ana", "Deep clean", "99.80 EUR", "Rua Augusta 10"},
		},
		{
			name:             "created_zh",
			event:            constants.BookingEventCreated,
			locale:           "zh",
			wantSubject:      "预约已收到：HC20260510100000123456",
			wantBodyContains: []string{"Ana 您好", "预约编号：HC20260510100000123456"},
		},
		{
			name:             "cancelled_en",
			event:            constants.BookingEventCancelled,
			locale:           "en",
			wantSubject:      "Booking cancelled: HC20260510100000123456",
			wantBodyContains: []string{"has been cancelled", "2026-05-12"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildBookingEmailContent(booking, tt.event, tt.locale)
			if subject != tt.wantSubject {
				t.Fatalf("subject = %q, want %q", subject, tt.wantSubject)
			}
			for _, want := range tt.wantBodyContains {
				if !strings.Contains(body, want) {
					t.Fatalf("body %q missing %q", body, want)
				}
			}
		})
	}
}

func TestSendBookingEmailRequiresConfig(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := disabled.SendBookingEmail(sampleBooking(), constants.BookingEventCreated, "en"); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}
	missingHost := NewEmailService(&config.EmailConfig{Enabled: true, Port: 25, From: "noreply@example.com"})
	if err := missingHost.SendBookingEmail(sampleBooking(), constants.BookingEventCreated, "en"); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}
	if missingHost.Enabled() {
		t.Fatalf("email service without host should not report enabled")
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	cases := map[string]bool{
		"550 5.1.1 user unknown":               true,
		"550 mailbox not found for recipient":  true,
		"421 service not available":            false,
		"recipient address rejected: no relay": true,
		"":                                     false,
	}
	for message, want := range cases {
		var err error
		if message != "" {
			err = errors.New(message)
		}
		if got := isEmailRecipientRejected(err); got != want {
			t.Fatalf("isEmailRecipientRejected(%q) = %v, want %v", message, got, want)
		}
	}
}
