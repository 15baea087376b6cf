package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/models"
)

func newTestBookingService(env *serviceTestEnv, now time.Time) *BookingService {
	svc := NewBookingService(testBookingConfig(), env.bookings, env.catalog, nil, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func validBookingInput(userID, serviceID uint) CreateBookingInput {
	return CreateBookingInput{
		UserID:        userID,
		ServiceID:     serviceID,
		BookingDate:   "2026-05-12",
		BookingTime:   "09:30",
		CustomerName:  "Ana Silva",
		CustomerEmail: "Ana@Example.com",
		CustomerPhone: "+351 910 000 000",
		Address:       "Rua Augusta 10, Lisboa",
		Quantity:      2,
		TotalAmount:   models.MustMoney("99.80"),
		ClientRef:     "line-1",
	}
}

func TestBookingServiceCreate(t *testing.T) {
	env := newServiceTestEnv(t, "booking_create")
	user := env.seedUser(t, "booker@example.com")
	svc := env.seedFixedService(t, "regular", "49.90")
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.Local)
	bookings := newTestBookingService(env, now)

	booking, err := bookings.Create(context.Background(), validBookingInput(user.ID, svc.ID))
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}
	if !strings.HasPrefix(booking.BookingNo, "HC20260510100000") || len(booking.BookingNo) != len("HC20260510100000")+6 {
		t.Fatalf("unexpected booking no: %s", booking.BookingNo)
	}
	if booking.Status != constants.BookingStatusPending {
		t.Fatalf("expected pending status, got %s", booking.Status)
	}
	if booking.ServiceTitle != svc.Title {
		t.Fatalf("expected title fallback %q, got %q", svc.Title, booking.ServiceTitle)
	}
	if booking.DurationMinutes != 120 {
		t.Fatalf("expected duration from service, got %d", booking.DurationMinutes)
	}
	if booking.CustomerEmail != "ana@example.com" {
		t.Fatalf("expected normalized email, got %s", booking.CustomerEmail)
	}
	if booking.Currency != "EUR" {
		t.Fatalf("expected EUR, got %s", booking.Currency)
	}

	stored, err := bookings.Get(user.ID, booking.ID)
	if err != nil {
		t.Fatalf("get booking failed: %v", err)
	}
	if stored.TotalAmount.String() != "99.80" {
		t.Fatalf("expected stored amount 99.80, got %s", stored.TotalAmount.String())
	}
}

func TestBookingServiceCreateValidation(t *testing.T) {
	env := newServiceTestEnv(t, "booking_validation")
	user := env.seedUser(t, "v@example.com")
	svc := env.seedFixedService(t, "regular", "10.00")
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.Local)
	bookings := newTestBookingService(env, now)

	tests := []struct {
		name   string
		mutate func(*CreateBookingInput)
		want   error
	}{
		{"bad_date", func(in *CreateBookingInput) { in.BookingDate = "12/05/2026" }, ErrBookingDateInvalid},
		{"bad_time", func(in *CreateBookingInput) { in.BookingTime = "9h" }, ErrBookingTimeInvalid},
		{"past", func(in *CreateBookingInput) { in.BookingDate = "2026-05-09" }, ErrBookingDatePast},
		{"too_far", func(in *CreateBookingInput) { in.BookingDate = "2026-07-01" }, ErrBookingDateTooFar},
		{"no_address", func(in *CreateBookingInput) { in.Address = " " }, ErrBookingContactInvalid},
		{"bad_email", func(in *CreateBookingInput) { in.CustomerEmail = "nope" }, ErrBookingContactInvalid},
		{"zero_amount", func(in *CreateBookingInput) { in.TotalAmount = models.MustMoney("0") }, ErrBookingAmountInvalid},
		{"unknown_service", func(in *CreateBookingInput) { in.ServiceID = 4242 }, ErrServiceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validBookingInput(user.ID, svc.ID)
			tt.mutate(&input)
			if _, err := bookings.Create(context.Background(), input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBookingServiceCancel(t *testing.T) {
	env := newServiceTestEnv(t, "booking_cancel")
	user := env.seedUser(t, "cancel@example.com")
	other := env.seedUser(t, "stranger@example.com")
	svc := env.seedFixedService(t, "regular", "10.00")
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.Local)
	bookings := newTestBookingService(env, now)

	booking, err := bookings.Create(context.Background(), validBookingInput(user.ID, svc.ID))
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}
	if _, err := bookings.Cancel(context.Background(), other.ID, booking.ID, "en-US"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound for another user, got %v", err)
	}
	cancelled, err := bookings.Cancel(context.Background(), user.ID, booking.ID, "en-US")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.BookingStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("unexpected cancel result: %+v", cancelled)
	}
	if _, err := bookings.Cancel(context.Background(), user.ID, booking.ID, "en-US"); !errors.Is(err, ErrBookingNotCancellable) {
		t.Fatalf("expected ErrBookingNotCancellable, got %v", err)
	}
	if err := bookings.AutoComplete(booking.ID); err != nil {
		t.Fatalf("auto complete failed: %v", err)
	}
	stored, err := bookings.Get(user.ID, booking.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != constants.BookingStatusCancelled {
		t.Fatalf("auto complete must not touch cancelled booking, got %s", stored.Status)
	}
}

func TestBookingServiceAutoCompleteAndList(t *testing.T) {
	env := newServiceTestEnv(t, "booking_auto_complete")
	user := env.seedUser(t, "auto@example.com")
	svc := env.seedFixedService(t, "regular", "10.00")
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.Local)
	bookings := newTestBookingService(env, now)

	first, err := bookings.Create(context.Background(), validBookingInput(user.ID, svc.ID))
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	if _, err := bookings.Create(context.Background(), validBookingInput(user.ID, svc.ID)); err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	if err := bookings.AutoComplete(first.ID); err != nil {
		t.Fatalf("auto complete failed: %v", err)
	}
	if err := bookings.AutoComplete(99999); err != nil {
		t.Fatalf("auto complete of missing booking should be a no-op, got %v", err)
	}

	list, total, err := bookings.List(BookingListInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("expected 2 bookings, got total=%d len=%d", total, len(list))
	}
	completed, total, err := bookings.List(BookingListInput{UserID: user.ID, Status: constants.BookingStatusCompleted})
	if err != nil {
		t.Fatalf("list completed failed: %v", err)
	}
	if total != 1 || completed[0].ID != first.ID {
		t.Fatalf("expected only first booking completed, got %+v", completed)
	}
}

func TestBookingServiceCompleteOverdue(t *testing.T) {
	env := newServiceTestEnv(t, "booking_overdue")
	user := env.seedUser(t, "overdue@example.com")
	svc := env.seedFixedService(t, "regular", "10.00")
	bookings := newTestBookingService(env, time.Date(2026, 5, 10, 10, 0, 0, 0, time.Local))

	booking, err := bookings.Create(context.Background(), validBookingInput(user.ID, svc.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	count, err := bookings.CompleteOverdue()
	if err != nil || count != 0 {
		t.Fatalf("nothing should be overdue yet, count=%d err=%v", count, err)
	}

	bookings.now = func() time.Time { return time.Date(2026, 5, 13, 8, 0, 0, 0, time.Local) }
	count, err = bookings.CompleteOverdue()
	if err != nil {
		t.Fatalf("complete overdue failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one overdue booking, got %d", count)
	}
	stored, err := bookings.Get(user.ID, booking.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != constants.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
}
