package executor

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"elevfleet/src/config"
	"elevfleet/src/logger"
	"elevfleet/src/types"

	"github.com/rs/zerolog"
)

func testConfig() config.Config {
	_ = logger.Configure(zerolog.Disabled)
	cfg := config.Default()
	cfg.TravelDuration = 2 * time.Millisecond
	cfg.DoorOpenDuration = 3 * time.Millisecond
	cfg.DoorCloseDuration = time.Millisecond
	cfg.IdleWait = 5 * time.Millisecond
	return cfg
}

// visitLog records door openings in order.
type visitLog struct {
	mu     sync.Mutex
	floors []int
}

func (v *visitLog) record(_, floor int) {
	v.mu.Lock()
	v.floors = append(v.floors, floor)
	v.mu.Unlock()
}

func (v *visitLog) get() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.floors)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startCar(t *testing.T, car *Car) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		car.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		car.RequestStop()
		select {
		case <-done:
		case <-time.After(time.Second):
			cancel()
			<-done
		}
		cancel()
	})
}

func TestAddTargetDedupAndDirection(t *testing.T) {
	car := NewCar(1, testConfig())

	car.AddTarget(6, false)
	car.AddTarget(3, true)
	car.AddTarget(6, false)

	st := car.State()
	if !slices.Equal(st.Targets.Slice(), []int{3, 6}) {
		t.Errorf("Targets = %v, want [3 6]", st.Targets.Slice())
	}
	if !slices.Equal(st.PriorityTargets.Slice(), []int{3}) {
		t.Errorf("PriorityTargets = %v, want [3]", st.PriorityTargets.Slice())
	}
	if st.Dir != types.MD_Up {
		t.Errorf("Dir = %v, want UP from first target above", st.Dir)
	}

	below := NewCar(2, testConfig())
	below.AddTarget(0, false)
	if st := below.State(); st.Dir != types.MD_Down {
		t.Errorf("Dir = %v, want DOWN", st.Dir)
	}
}

func TestAddTargetAtCurrentFloor(t *testing.T) {
	car := NewCar(1, testConfig())
	car.AddTarget(config.StartFloor, false)

	st := car.State()
	if st.Targets.Len() != 0 {
		t.Errorf("Targets = %v, want empty", st.Targets.Slice())
	}
	if !st.OpenHere {
		t.Errorf("OpenHere = false, want a door cycle requested")
	}
	if st.Dir != types.MD_Idle {
		t.Errorf("Dir = %v, want IDLE while no targets", st.Dir)
	}
}

func TestStateIsDeepCopy(t *testing.T) {
	car := NewCar(1, testConfig())
	car.TryAssignTrip(2, 5, false, false)
	car.TryAssignTrip(7, config.StartFloor, false, false)

	st := car.State()
	st.Targets.Add(9)
	st.Alights[9] = 3
	st.Held[7][0].Floor = 9

	fresh := car.State()
	if fresh.Targets.Contains(9) || fresh.Alights[9] != 0 || fresh.Held[7][0].Floor != config.StartFloor {
		t.Errorf("mutating a copy leaked into the car: %+v", fresh)
	}
}

func TestBoardingBounds(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPassengers = 2
	car := NewCar(1, cfg)

	if !car.TryBoard() || !car.TryBoard() {
		t.Fatalf("TryBoard() refused below capacity")
	}
	if car.TryBoard() {
		t.Errorf("TryBoard() accepted a passenger beyond capacity")
	}
	if car.TryAssignTrip(3, 4, false, false) {
		t.Errorf("TryAssignTrip() accepted a passenger beyond capacity")
	}
	if st := car.State(); st.Passengers != 2 || st.Alights[4] != 0 {
		t.Errorf("failed boarding had side effects: %+v", st)
	}

	for _i := 0; _i < 5; _i++ {
		car.Alight()
	}
	if st := car.State(); st.Passengers != 0 {
		t.Errorf("Passengers = %d after extra Alight, want 0", st.Passengers)
	}
}

func TestCarVisitsEveryTargetOnce(t *testing.T) {
	car := NewCar(1, testConfig())
	visits := &visitLog{}
	car.SetArrivalHook(visits.record)

	for _, floor := range []int{5, 3, 8, 3, 5} {
		car.AddTarget(floor, false)
	}
	startCar(t, car)

	waitFor(t, "car to park", func() bool {
		st := car.State()
		return len(visits.get()) == 3 && st.Door == types.Stopped
	})
	if got := visits.get(); !slices.Equal(got, []int{3, 5, 8}) {
		t.Errorf("visits = %v, want [3 5 8]", got)
	}
	st := car.State()
	if st.Targets.Len() != 0 || st.Dir != types.MD_Idle || st.Floor != 8 {
		t.Errorf("final state = floor %d dir %v targets %v, want 8 IDLE []", st.Floor, st.Dir, st.Targets.Slice())
	}
}

func TestCarSweepReverses(t *testing.T) {
	car := NewCar(1, testConfig())
	visits := &visitLog{}
	car.SetArrivalHook(visits.record)

	car.AddTarget(4, false)
	car.AddTarget(0, false)
	car.AddTarget(6, false)
	startCar(t, car)

	waitFor(t, "three stops", func() bool { return len(visits.get()) == 3 })
	if got := visits.get(); !slices.Equal(got, []int{4, 6, 0}) {
		t.Errorf("visits = %v, want [4 6 0]", got)
	}
}

func TestPriorityTargetInterruptsSweep(t *testing.T) {
	car := NewCar(1, testConfig())
	visits := &visitLog{}
	car.SetArrivalHook(visits.record)

	car.AddTarget(9, false)
	car.AddTarget(6, true)
	startCar(t, car)

	waitFor(t, "two stops", func() bool { return len(visits.get()) == 2 })
	if got := visits.get(); !slices.Equal(got, []int{6, 9}) {
		t.Errorf("visits = %v, want [6 9]", got)
	}
	if st := car.State(); st.PriorityTargets.Len() != 0 {
		t.Errorf("PriorityTargets = %v, want cleared", st.PriorityTargets.Slice())
	}
}

func TestPassengersAlightAtDropoff(t *testing.T) {
	car := NewCar(1, testConfig())
	if !car.TryAssignTrip(config.StartFloor, 4, false, false) {
		t.Fatalf("TryAssignTrip() refused on an empty car")
	}
	startCar(t, car)

	waitFor(t, "drop-off", func() bool {
		st := car.State()
		return st.Floor == 4 && st.Passengers == 0 && st.Door == types.Stopped
	})
}

func TestRequestStopWhileIdle(t *testing.T) {
	car := NewCar(1, testConfig())
	done := make(chan struct{})
	go func() {
		car.Run(context.Background())
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	car.RequestStop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run() did not return after RequestStop")
	}
}

func TestCancelAbandonsDoorHold(t *testing.T) {
	cfg := testConfig()
	cfg.DoorOpenDuration = time.Hour
	car := NewCar(1, cfg)
	car.AddTarget(2, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		car.Run(ctx)
		close(done)
	}()

	waitFor(t, "doors open", func() bool { return car.State().Door == types.DoorsOpen })
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run() did not return after cancel")
	}
	if st := car.State(); st.Floor != 2 {
		t.Errorf("Floor = %d after cancel, want 2", st.Floor)
	}
}

func TestTryAssignRefusesFullCar(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPassengers = 1
	car := NewCar(1, cfg)

	if !car.TryAssignTrip(2, 6, false, false) {
		t.Fatalf("TryAssignTrip() refused on an empty car")
	}
	if car.TryAssign(4, false) {
		t.Errorf("TryAssign() accepted a full car")
	}
	if car.TryAssignTrip(3, 5, false, false) {
		t.Errorf("TryAssignTrip() accepted a full car")
	}
	st := car.State()
	if !slices.Equal(st.Targets.Slice(), []int{2, 6}) || st.Passengers != 1 || st.Alights[5] != 0 {
		t.Errorf("refused assignment changed state: targets %v passengers %d alights %v",
			st.Targets.Slice(), st.Passengers, st.Alights)
	}
}

func TestHeldDropoffReleasedAtPickup(t *testing.T) {
	car := NewCar(1, testConfig())
	visits := &visitLog{}
	car.SetArrivalHook(visits.record)

	if !car.TryAssignTrip(3, config.StartFloor, false, true) {
		t.Fatalf("TryAssignTrip() refused on an empty car")
	}
	if st := car.State(); st.Targets.Contains(config.StartFloor) || st.OpenHere {
		t.Fatalf("drop-off at the current floor was served before pickup: %+v", st)
	}
	startCar(t, car)

	waitFor(t, "pickup and drop-off", func() bool {
		return len(visits.get()) == 2 && car.State().Door == types.Stopped
	})
	if got := visits.get(); !slices.Equal(got, []int{3, config.StartFloor}) {
		t.Errorf("visits = %v, want [3 %d]", got, config.StartFloor)
	}
	st := car.State()
	if st.Passengers != 0 || len(st.Held) != 0 || st.PriorityTargets.Len() != 0 {
		t.Errorf("final state = passengers %d held %v priority %v", st.Passengers, st.Held, st.PriorityTargets.Slice())
	}
}

func TestRequestStopFinishesCurrentStep(t *testing.T) {
	cfg := testConfig()
	cfg.TravelDuration = 150 * time.Millisecond
	car := NewCar(1, cfg)
	car.AddTarget(5, false)

	done := make(chan struct{})
	go func() {
		car.Run(context.Background())
		close(done)
	}()

	waitFor(t, "car moving", func() bool { return car.State().Door == types.Moving })
	car.RequestStop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run() did not return after RequestStop")
	}

	st := car.State()
	if st.Floor != config.StartFloor+1 {
		t.Errorf("Floor = %d, want %d after one finished step", st.Floor, config.StartFloor+1)
	}
	if !slices.Equal(st.Targets.Slice(), []int{5}) {
		t.Errorf("Targets = %v, want [5] untouched", st.Targets.Slice())
	}
}
