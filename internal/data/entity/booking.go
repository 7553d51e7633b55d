package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

// ActiveCountingStatuses block availability of a unit.
var ActiveCountingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusActive,
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive,
		BookingStatusCompleted, BookingStatusCancelled, BookingStatusExpired:
		return true
	default:
		return false
	}
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusExpired
}

func (s BookingStatus) BlocksAvailability() bool {
	for _, st := range ActiveCountingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodEwallet  PaymentMethod = "ewallet"
	PaymentMethodCredit   PaymentMethod = "credit"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodEwallet, PaymentMethodCredit:
		return true
	default:
		return false
	}
}

type Booking struct {
	BaseNoDelete
	BookingCode     string        `db:"booking_code"`
	UserID          uuid.UUID     `db:"user_id"`
	UnitID          uuid.UUID     `db:"unit_id"`
	CheckInDate     time.Time     `db:"check_in_date"`
	CheckOutDate    time.Time     `db:"check_out_date"`
	DurationMonths  int           `db:"duration_months"`
	TotalPrice      float64       `db:"total_price"`
	AdminFee        float64       `db:"admin_fee"`
	PaymentMethod   PaymentMethod `db:"payment_method"`
	BookingStatus   BookingStatus `db:"booking_status"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
	Notes           *string       `db:"notes"`
	ExpiresAt       time.Time     `db:"expires_at"`
	ConfirmedAt     *time.Time    `db:"confirmed_at"`
	CancelledAt     *time.Time    `db:"cancelled_at"`
	CancelledReason *string       `db:"cancelled_reason"`
}

// IsStale reports whether a pending booking has outlived its payment window.
// A booking whose expires_at equals now is not yet stale.
func (b *Booking) IsStale(now time.Time) bool {
	return b.BookingStatus == BookingStatusPending && b.ExpiresAt.Before(now)
}

// Overlaps applies the half-open rule to the booking's stay.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return IntervalsOverlap(b.CheckInDate, b.CheckOutDate, checkIn, checkOut)
}
