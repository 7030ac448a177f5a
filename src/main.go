package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elevfleet/src/config"
	"elevfleet/src/dispatcher"
	"elevfleet/src/logger"
	"elevfleet/src/timer"
	"elevfleet/src/types"

	"github.com/rs/zerolog"
)

const statusInterval = 2 * time.Second

type trip struct {
	from, to int
	pause    time.Duration
}

var sampleTrips = []trip{
	{from: 1, to: 8, pause: time.Second},
	{from: 3, to: 1, pause: 2 * time.Second},
	{from: 5, to: 10, pause: time.Second},
	{from: 2, to: 7, pause: 0},
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	envPath := flag.String("env", ".env", "Path to .env file with ELEVFLEET_* overrides")
	settle := flag.Duration("settle", 20*time.Second, "How long to let the fleet run after the last request")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.Configure(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fleet := newFleet(cfg)
	go reportStatus(ctx, fleet, log)

	replay(ctx, fleet, sampleTrips)
	timer.Hold(ctx, *settle)

	logStatus(log, fleet.Snapshot())
	if err := fleet.Shutdown(); err != nil {
		if errors.Is(err, dispatcher.ErrForcedShutdown) {
			log.Warn().Err(err).Msg("Fleet did not stop in time")
			return
		}
		log.Error().Err(err).Msg("Shutdown failed")
	}
}

// newFleet starts a fleet that outlives the driver's signal context; only
// Shutdown stops it.
func newFleet(cfg config.Config) *dispatcher.Dispatcher {
	fleet := dispatcher.New(cfg)
	fleet.Start(context.Background())
	fleet.SetPriorityFloor(1)
	fleet.SetPriorityFloor(10)
	return fleet
}

// replay submits trips in order, stopping early once ctx ends.
func replay(ctx context.Context, fleet *dispatcher.Dispatcher, trips []trip) {
	for _, t := range trips {
		fleet.Submit(types.NewCompleteTrip(t.from, t.to))
		if !timer.Hold(ctx, t.pause) {
			return
		}
	}
}

func reportStatus(ctx context.Context, fleet *dispatcher.Dispatcher, log *zerolog.Logger) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logStatus(log, fleet.Snapshot())
		}
	}
}

func logStatus(log *zerolog.Logger, status types.FleetStatus) {
	for _, car := range status.Cars {
		log.Info().
			Int("car", car.ID).
			Int("floor", car.Floor).
			Stringer("dir", car.Dir).
			Stringer("door", car.Door).
			Int("passengers", car.Passengers).
			Int("capacity", car.Capacity).
			Ints("targets", car.Targets).
			Msg("Car status")
	}
	log.Info().
		Int("queued", status.QueueDepth).
		Ints("priority_floors", status.PriorityFloors).
		Int64("stops_served", status.StopsServed).
		Msg("Fleet status")
}
