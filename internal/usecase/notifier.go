package usecase

import (
	"context"

	"kos-booking/internal/data/entity"
	"kos-booking/pkg/utils"

	"go.uber.org/zap"
)

// Notifier delivers booking notifications. Delivery happens after commit and
// never fails the operation that triggered it.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *entity.Booking)
	BookingStatusChanged(ctx context.Context, booking *entity.Booking, from entity.BookingStatus)
}

// logNotifier stands in for the mail gateway.
type logNotifier struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func NewLogNotifier(config utils.EmailConfig, log *zap.Logger) Notifier {
	return &logNotifier{
		config: config,
		log:    log.With(zap.String("component", "notifier")),
	}
}

func (n *logNotifier) BookingCreated(_ context.Context, booking *entity.Booking) {
	if !n.config.Enabled {
		return
	}
	n.log.Info("Notification queued",
		zap.String("template", "booking_created"),
		zap.String("from", n.config.From),
		zap.String("user_id", booking.UserID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.Time("expires_at", booking.ExpiresAt),
	)
}

func (n *logNotifier) BookingStatusChanged(_ context.Context, booking *entity.Booking, from entity.BookingStatus) {
	if !n.config.Enabled {
		return
	}
	n.log.Info("Notification queued",
		zap.String("template", "booking_"+string(booking.BookingStatus)),
		zap.String("from", n.config.From),
		zap.String("user_id", booking.UserID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("previous_status", string(from)),
	)
}
