package executor

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"elevfleet/src/config"
	"elevfleet/src/logger"
	"elevfleet/src/timer"
	"elevfleet/src/types"
	"elevfleet/src/utils"

	"github.com/rs/zerolog"
	"github.com/tiendc/go-deepcopy"
)

// Car is one elevator. All state sits behind mu; the movement loop in Run and
// the dispatcher only meet there.
type Car struct {
	mu    sync.Mutex
	state types.CarState

	wake    chan struct{}
	running atomic.Bool

	travelDuration    time.Duration
	doorOpenDuration  time.Duration
	doorCloseDuration time.Duration
	idleWait          time.Duration

	onArrival func(carID, floor int)

	log zerolog.Logger
}

func NewCar(id int, cfg config.Config) *Car {
	car := &Car{
		state: types.CarState{
			ID:       id,
			Floor:    cfg.StartFloor,
			Dir:      types.MD_Idle,
			Door:     types.Stopped,
			Capacity: cfg.MaxPassengers,
			Alights:  make(map[int]int),
			Held:     make(map[int][]types.HeldTarget),
		},
		wake:              make(chan struct{}, 1),
		travelDuration:    cfg.TravelDuration,
		doorOpenDuration:  cfg.DoorOpenDuration,
		doorCloseDuration: cfg.DoorCloseDuration,
		idleWait:          cfg.IdleWait,
		log:               logger.Get().With().Int("car", id).Logger(),
	}
	car.running.Store(true)
	return car
}

func (c *Car) ID() int { return c.state.ID }

// SetArrivalHook registers fn to be called each time the doors open at a floor.
// Must be called before Run.
func (c *Car) SetArrivalHook(fn func(carID, floor int)) {
	c.onArrival = fn
}

// AddTarget commits the car to visiting floor. It is never refused; fullness
// only matters to the dispatcher. A floor the car is parked at or has its
// doors open on is satisfied in place instead of being queued.
func (c *Car) AddTarget(floor int, isPriority bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addTargetLocked(floor, isPriority)
}

func (c *Car) addTargetLocked(floor int, isPriority bool) {
	s := &c.state
	if floor == s.Floor && (s.Door == types.Stopped || s.Door == types.DoorsOpen) {
		if s.Door == types.Stopped {
			s.OpenHere = true
		}
		c.log.Debug().Int("floor", floor).Msg("Target satisfied at current floor")
		timer.Notify(c.wake)
		return
	}

	if s.Targets.Add(floor) {
		c.log.Debug().Int("floor", floor).Bool("priority", isPriority).Msg("Target added")
	}
	if isPriority {
		s.PriorityTargets.Add(floor)
	}
	if s.Dir == types.MD_Idle {
		s.Dir = directionTo(s.Floor, floor)
	}
	timer.Notify(c.wake)
}

// AddTargetIfDoorsOpen adds floor only while the doors are open, as one step.
func (c *Car) AddTargetIfDoorsOpen(floor int, isPriority bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Door != types.DoorsOpen {
		return false
	}
	c.addTargetLocked(floor, isPriority)
	return true
}

// TryAssign adds floor as a pickup target unless the car is full, checking
// and inserting under one lock hold.
func (c *Car) TryAssign(floor int, isPriority bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.IsFull() {
		return false
	}
	c.addTargetLocked(floor, isPriority)
	return true
}

// TryAssignTrip commits the car to a pickup at from and a drop-off at to and
// boards the passenger, or changes nothing if the car is full. A drop-off on
// the floor the car stands on is held back until from has been served, so
// the car returns for it after the pickup.
func (c *Car) TryAssignTrip(from, to int, fromPriority, toPriority bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.boardLocked() {
		return false
	}
	s := &c.state
	c.addTargetLocked(from, fromPriority)
	if to == s.Floor && from != s.Floor {
		s.Held[from] = append(s.Held[from], types.HeldTarget{Floor: to, Priority: toPriority})
		c.log.Debug().Int("floor", to).Int("after", from).Msg("Drop-off held until pickup")
	} else {
		c.addTargetLocked(to, toPriority)
	}
	s.Alights[to]++
	return true
}

// TryBoard takes one passenger unless the car is full.
func (c *Car) TryBoard() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boardLocked()
}

func (c *Car) boardLocked() bool {
	if c.state.Passengers >= c.state.Capacity {
		return false
	}
	c.state.Passengers++
	return true
}

func (c *Car) Alight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Passengers > 0 {
		c.state.Passengers--
	}
}

// RequestStop asks the movement loop to exit after its current step.
func (c *Car) RequestStop() {
	c.running.Store(false)
	timer.Notify(c.wake)
}

// State returns a deep copy of the car state.
func (c *Car) State() types.CarState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := new(types.CarState)
	// CarState holds only ints, slices and maps; Copy fails only on kinds
	// such as chan or func, so an error here is a programming mistake.
	if err := deepcopy.Copy(st, &c.state); err != nil {
		c.log.Error().Err(err).Msg("Deep copy of car state failed")
		return c.copyLocked()
	}
	return *st
}

func (c *Car) copyLocked() types.CarState {
	st := c.state
	st.Targets = types.FloorSet(st.Targets.Slice())
	st.PriorityTargets = types.FloorSet(st.PriorityTargets.Slice())
	st.Alights = maps.Clone(st.Alights)
	st.Held = make(map[int][]types.HeldTarget, len(c.state.Held))
	for floor, held := range c.state.Held {
		st.Held[floor] = slices.Clone(held)
	}
	return st
}

func (c *Car) Status() types.CarStatus {
	st := c.State()
	return types.CarStatus{
		ID:         st.ID,
		Floor:      st.Floor,
		Dir:        st.Dir,
		Door:       st.Door,
		Passengers: st.Passengers,
		Capacity:   st.Capacity,
		Targets:    st.Targets.Slice(),
	}
}

type action int

const (
	idle action = iota
	serve
	move
)

// Run is the movement loop. It returns when RequestStop was called or ctx is
// cancelled; a cancelled ctx abandons the current hold without moving the car.
func (c *Car) Run(ctx context.Context) {
	c.log.Info().Int("floor", c.State().Floor).Msg("Car started")
	defer c.log.Info().Msg("Car stopped")

	for c.running.Load() {
		floor, act := c.plan()
		switch act {
		case idle:
			if timer.Wait(ctx, c.wake, c.idleWait) == timer.Cancelled {
				return
			}
		case serve:
			if !c.serveFloor(ctx) {
				return
			}
		case move:
			if !c.step(ctx, floor) {
				return
			}
		}
	}
}

// plan decides the next action under the lock.
func (c *Car) plan() (int, action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &c.state

	if ShouldStopHere(s) {
		return s.Floor, serve
	}
	if s.Targets.Len() == 0 {
		c.parkLocked()
		return s.Floor, idle
	}
	next, ok := NextFloor(s)
	if !ok {
		c.log.Warn().Ints("targets", s.Targets.Slice()).Msg("No reachable target, parking")
		return s.Floor, idle
	}
	s.Door = types.Moving
	return next, move
}

// step moves one floor toward target after the travel time.
func (c *Car) step(ctx context.Context, target int) bool {
	if !timer.Hold(ctx, c.travelDuration) {
		return false
	}
	c.mu.Lock()
	c.state.Floor = utils.StepToward(c.state.Floor, target)
	floor, dir := c.state.Floor, c.state.Dir
	c.mu.Unlock()

	c.log.Debug().Int("floor", floor).Stringer("dir", dir).Int("heading", target).Msg("Passing floor")
	return true
}
