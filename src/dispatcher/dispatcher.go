package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"elevfleet/src/config"
	"elevfleet/src/executor"
	"elevfleet/src/logger"
	"elevfleet/src/timer"
	"elevfleet/src/types"

	"github.com/rs/zerolog"
)

// ErrForcedShutdown is returned by Shutdown when workers outlived the grace
// period and had to be cancelled.
var ErrForcedShutdown = errors.New("dispatcher: shutdown grace period exceeded, workers cancelled")

// Dispatcher owns the fleet, the request queue and the priority floors.
type Dispatcher struct {
	cfg      config.Config
	cars     []*executor.Car
	queue    *requestQueue
	priority *types.PriorityFloors

	stopsServed atomic.Int64

	wg          sync.WaitGroup
	startOnce   sync.Once
	stopLoop    context.CancelFunc
	forceCancel context.CancelFunc

	log zerolog.Logger
}

// New builds a fleet of cfg.NumCars cars numbered from 1. Nothing runs until Start.
func New(cfg config.Config) *Dispatcher {
	d := &Dispatcher{
		cfg:      cfg,
		queue:    newRequestQueue(),
		priority: types.NewPriorityFloors(),
		log:      logger.Get().With().Str("component", "dispatcher").Logger(),
	}
	for id := 1; id <= cfg.NumCars; id++ {
		car := executor.NewCar(id, cfg)
		car.SetArrivalHook(d.onArrival)
		d.cars = append(d.cars, car)
	}
	return d
}

// Start launches one movement loop per car and the dispatch loop. Cancelling
// ctx cancels every worker immediately; use Shutdown for a graceful stop.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		forceCtx, forceCancel := context.WithCancel(ctx)
		loopCtx, stopLoop := context.WithCancel(forceCtx)
		d.forceCancel = forceCancel
		d.stopLoop = stopLoop

		for _, car := range d.cars {
			d.wg.Add(1)
			go func(car *executor.Car) {
				defer d.wg.Done()
				car.Run(forceCtx)
			}(car)
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run(loopCtx)
		}()
		d.log.Info().Int("cars", len(d.cars)).Int("capacity", d.cfg.MaxPassengers).Msg("Fleet started")
	})
}

// Submit enqueues req. It never blocks and never refuses.
func (d *Dispatcher) Submit(req types.Request) {
	d.queue.Push(req)
	d.log.Info().Str("request", req.TraceID()).Str("kind", req.Kind()).Msg("Request received")
}

func (d *Dispatcher) SetPriorityFloor(floor int) {
	if d.priority.Set(floor) {
		d.log.Info().Int("floor", floor).Msg("Priority floor set")
	}
}

func (d *Dispatcher) ClearPriorityFloor(floor int) {
	if d.priority.Clear(floor) {
		d.log.Info().Int("floor", floor).Msg("Priority floor cleared")
	}
}

// Snapshot reads every car under its own lock, one at a time.
func (d *Dispatcher) Snapshot() types.FleetStatus {
	status := types.FleetStatus{
		Cars:           make([]types.CarStatus, 0, len(d.cars)),
		QueueDepth:     d.queue.Len(),
		PriorityFloors: d.priority.List(),
		StopsServed:    d.stopsServed.Load(),
	}
	for _, car := range d.cars {
		status.Cars = append(status.Cars, car.Status())
	}
	return status
}

// Shutdown stops the dispatch loop, asks every car to finish its current step
// and waits up to ShutdownGrace. Stragglers are cancelled and ErrForcedShutdown
// is returned.
func (d *Dispatcher) Shutdown() error {
	d.log.Info().Msg("Shutting down fleet")
	if d.stopLoop != nil {
		d.stopLoop()
	}
	for _, car := range d.cars {
		car.RequestStop()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info().Msg("Fleet stopped")
		return nil
	case <-time.After(d.cfg.ShutdownGrace):
		d.log.Warn().Dur("grace", d.cfg.ShutdownGrace).Msg("Workers still running, cancelling")
		if d.forceCancel != nil {
			d.forceCancel()
		}
		<-done
		return ErrForcedShutdown
	}
}

// run drains the queue in cycles. Each cycle handles the requests present when
// it began; requests that find no car go to the back of the queue and the loop
// pauses for one poll interval before retrying them.
func (d *Dispatcher) run(ctx context.Context) {
	for {
		if d.queue.Len() == 0 {
			if timer.Wait(ctx, d.queue.ready, d.cfg.QueuePollInterval) == timer.Cancelled {
				return
			}
			continue
		}
		if d.dispatchCycle() > 0 {
			if !timer.Hold(ctx, d.cfg.QueuePollInterval) {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// dispatchCycle returns the number of requests that were requeued.
func (d *Dispatcher) dispatchCycle() int {
	requeued := 0
	for i, n := 0, d.queue.Len(); i < n; i++ {
		req, ok := d.queue.Pop()
		if !ok {
			break
		}
		if !d.handleRequest(req) {
			d.queue.Push(req)
			requeued++
		}
	}
	return requeued
}

func (d *Dispatcher) onArrival(carID, floor int) {
	n := d.stopsServed.Add(1)
	d.log.Debug().Int("car", carID).Int("floor", floor).Int64("served", n).Msg("Stop served")
}
