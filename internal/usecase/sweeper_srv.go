package usecase

import (
	"context"
	"sync"
	"time"

	"kos-booking/internal/data/entity"
	"kos-booking/internal/data/repository"
	"kos-booking/internal/dto/response"
	"kos-booking/pkg/clock"
	"kos-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSweepBatchSize = 500
	defaultSweepWorkers   = 4
)

type SweeperService interface {
	// RunExpirationSweep moves every pending booking with expires_at < now
	// to expired, paging through them in batches. Each booking is its own
	// transaction; failures are reported per booking and never abort the
	// sweep.
	RunExpirationSweep(ctx context.Context) (*response.SweepResponse, error)
	// RunStayProgression moves confirmed bookings to active on check-in and
	// active bookings to completed on check-out.
	RunStayProgression(ctx context.Context) (*response.SweepResponse, error)
	// Run performs both passes.
	Run(ctx context.Context) (*response.SweepResponse, error)
}

type sweeperService struct {
	bookingRepo repository.BookingRepository
	lifecycle   BookingService
	batchSize   int
	workers     int
	clock       clock.Clock
	log         *zap.Logger
}

func NewSweeperService(
	bookingRepo repository.BookingRepository,
	lifecycle BookingService,
	config utils.BookingConfig,
	clk clock.Clock,
	log *zap.Logger,
) SweeperService {
	batchSize := config.SweepBatchSize
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	workers := config.SweepWorkers
	if workers <= 0 {
		workers = defaultSweepWorkers
	}

	return &sweeperService{
		bookingRepo: bookingRepo,
		lifecycle:   lifecycle,
		batchSize:   batchSize,
		workers:     workers,
		clock:       clk,
		log:         log.With(zap.String("service", "sweeper")),
	}
}

func (s *sweeperService) RunExpirationSweep(ctx context.Context) (*response.SweepResponse, error) {
	start := time.Now()
	now := s.clock.Now()
	report := &response.SweepResponse{Failures: []response.SweepFailure{}}

	candidates, expired, err := s.drain(ctx,
		func(ctx context.Context, after repository.SweepCursor) ([]*entity.Booking, error) {
			return s.bookingRepo.FindStalePending(ctx, now, after, s.batchSize)
		},
		func(b *entity.Booking) time.Time { return b.ExpiresAt },
		s.lifecycle.Expire, report)
	if err != nil {
		logFailure(s.log, err, "Failed to load stale bookings", zap.Int("expired_before_failure", expired))
		return nil, err
	}
	report.ExpiredCount = expired

	s.log.Info("Expiration sweep finished",
		zap.Int("candidates", candidates),
		zap.Int("expired", report.ExpiredCount),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("duration", time.Since(start)),
	)

	return report, nil
}

func (s *sweeperService) RunStayProgression(ctx context.Context) (*response.SweepResponse, error) {
	today := entity.DateOnly(s.clock.Now())
	report := &response.SweepResponse{Failures: []response.SweepFailure{}}

	_, activated, err := s.drain(ctx,
		func(ctx context.Context, after repository.SweepCursor) ([]*entity.Booking, error) {
			return s.bookingRepo.FindDueForCheckIn(ctx, today, after, s.batchSize)
		},
		func(b *entity.Booking) time.Time { return b.CheckInDate },
		s.lifecycle.Activate, report)
	if err != nil {
		logFailure(s.log, err, "Failed to load bookings due for check-in")
		return nil, err
	}
	report.ActivatedCount = activated

	// Bookings activated above are picked up by the next run if their stay
	// has already ended.
	_, completed, err := s.drain(ctx,
		func(ctx context.Context, after repository.SweepCursor) ([]*entity.Booking, error) {
			return s.bookingRepo.FindDueForCheckOut(ctx, today, after, s.batchSize)
		},
		func(b *entity.Booking) time.Time { return b.CheckOutDate },
		s.lifecycle.Complete, report)
	if err != nil {
		logFailure(s.log, err, "Failed to load bookings due for check-out")
		return nil, err
	}
	report.CompletedCount = completed

	s.log.Info("Stay progression finished",
		zap.Int("activated", report.ActivatedCount),
		zap.Int("completed", report.CompletedCount),
		zap.Int("failures", len(report.Failures)),
	)

	return report, nil
}

// drain pages through load with a keyset cursor until a short page, applying
// fn to every row. Rows that fail stay behind the cursor, so each candidate
// is attempted once per run.
func (s *sweeperService) drain(
	ctx context.Context,
	load func(ctx context.Context, after repository.SweepCursor) ([]*entity.Booking, error),
	key func(b *entity.Booking) time.Time,
	fn func(ctx context.Context, id uuid.UUID) error,
	report *response.SweepResponse,
) (candidates, succeeded int, err error) {
	var after repository.SweepCursor
	for {
		page, err := load(ctx, after)
		if err != nil {
			return candidates, succeeded, err
		}

		candidates += len(page)
		succeeded += s.apply(ctx, page, fn, report)

		if len(page) < s.batchSize {
			return candidates, succeeded, nil
		}
		if err := ctx.Err(); err != nil {
			return candidates, succeeded, err
		}

		last := page[len(page)-1]
		after = repository.SweepCursor{Key: key(last), ID: last.ID}
	}
}

func (s *sweeperService) Run(ctx context.Context) (*response.SweepResponse, error) {
	expired, err := s.RunExpirationSweep(ctx)
	if err != nil {
		return nil, err
	}

	progressed, err := s.RunStayProgression(ctx)
	if err != nil {
		return expired, err
	}

	expired.ActivatedCount = progressed.ActivatedCount
	expired.CompletedCount = progressed.CompletedCount
	expired.Failures = append(expired.Failures, progressed.Failures...)
	return expired, nil
}

// apply runs fn for every booking with bounded concurrency and returns the
// number of successes. Failures are appended to report.
func (s *sweeperService) apply(
	ctx context.Context,
	bookings []*entity.Booking,
	fn func(ctx context.Context, id uuid.UUID) error,
	report *response.SweepResponse,
) int {
	var (
		mu        sync.Mutex
		succeeded int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, b := range bookings {
		id := b.ID
		g.Go(func() error {
			err := fn(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn("Sweep item failed", zap.String("booking_id", id.String()), zap.Error(err))
				report.Failures = append(report.Failures, response.SweepFailure{
					BookingID: id.String(),
					Error:     publicMessage(err),
				})
				return nil
			}
			succeeded++
			return nil
		})
	}

	_ = g.Wait()
	return succeeded
}
