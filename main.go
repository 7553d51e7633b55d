package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kos-booking/cmd"
	"kos-booking/internal/data/repository"
	"kos-booking/internal/wire"
	"kos-booking/pkg/clock"
	"kos-booking/pkg/database"
	"kos-booking/pkg/scheduler"
	"kos-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to migrate schema", zap.Error(err))
		}
		logger.Info("Schema migrated")
	}

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, config, clock.NewRealClock(), logger)

	jobs := scheduler.New(logger)
	sweep := func(ctx context.Context) error {
		_, err := app.Service.Sweeper.Run(ctx)
		return err
	}
	if err := jobs.AddJob(config.Booking.SweepSchedule, "booking-sweep", time.Minute, sweep); err != nil {
		logger.Fatal("Failed to schedule booking sweep", zap.Error(err))
	}
	jobs.Start()

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	jobs.Stop(stopCtx)
	logger.Info("Shutdown complete")
}
