package response

import (
	"time"

	"kos-booking/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	BookingCode     string               `json:"booking_code"`
	UserID          string               `json:"user_id"`
	UnitID          string               `json:"unit_id"`
	CheckInDate     string               `json:"check_in_date"`
	CheckOutDate    string               `json:"check_out_date"`
	DurationMonths  int                  `json:"duration_months"`
	TotalPrice      float64              `json:"total_price"`
	AdminFee        float64              `json:"admin_fee"`
	PaymentMethod   entity.PaymentMethod `json:"payment_method"`
	BookingStatus   entity.BookingStatus `json:"booking_status"`
	PaymentStatus   entity.PaymentStatus `json:"payment_status"`
	Notes           *string              `json:"notes,omitempty"`
	ExpiresAt       time.Time            `json:"expires_at"`
	ConfirmedAt     *time.Time           `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CancelledReason *string              `json:"cancelled_reason,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type CreateBookingResponse struct {
	BookingID   string    `json:"booking_id"`
	BookingCode string    `json:"booking_code"`
	TotalPrice  float64   `json:"total_price"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AvailabilityResponse struct {
	UnitID       string `json:"unit_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Available    bool   `json:"available"`
}

type SweepFailure struct {
	BookingID string `json:"booking_id"`
	Error     string `json:"error"`
}

type SweepResponse struct {
	ExpiredCount   int            `json:"expired_count"`
	ActivatedCount int            `json:"activated_count"`
	CompletedCount int            `json:"completed_count"`
	Failures       []SweepFailure `json:"failures"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		BookingCode:     b.BookingCode,
		UserID:          b.UserID.String(),
		UnitID:          b.UnitID.String(),
		CheckInDate:     b.CheckInDate.Format(time.DateOnly),
		CheckOutDate:    b.CheckOutDate.Format(time.DateOnly),
		DurationMonths:  b.DurationMonths,
		TotalPrice:      b.TotalPrice,
		AdminFee:        b.AdminFee,
		PaymentMethod:   b.PaymentMethod,
		BookingStatus:   b.BookingStatus,
		PaymentStatus:   b.PaymentStatus,
		Notes:           b.Notes,
		ExpiresAt:       b.ExpiresAt,
		ConfirmedAt:     b.ConfirmedAt,
		CancelledAt:     b.CancelledAt,
		CancelledReason: b.CancelledReason,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
