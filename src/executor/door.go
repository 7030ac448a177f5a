package executor

import (
	"context"

	"elevfleet/src/timer"
	"elevfleet/src/types"
)

// serveFloor clears the current floor and runs one door cycle:
// DOORS_OPEN for the dwell, DOORS_CLOSING, then MOVING or STOPPED.
func (c *Car) serveFloor(ctx context.Context) bool {
	c.mu.Lock()
	s := &c.state
	floor := s.Floor
	s.Targets.Remove(floor)
	s.PriorityTargets.Remove(floor)
	s.OpenHere = false
	for _, held := range s.Held[floor] {
		c.addTargetLocked(held.Floor, held.Priority)
	}
	delete(s.Held, floor)
	leaving := s.Alights[floor]
	delete(s.Alights, floor)
	s.Passengers = max(0, s.Passengers-leaving)
	if s.Targets.Len() == 0 {
		s.Dir = types.MD_Idle
	}
	s.Door = types.DoorsOpen
	passengers := s.Passengers
	c.mu.Unlock()

	c.log.Info().Int("floor", floor).Int("alighted", leaving).Int("passengers", passengers).Msg("Doors open")
	if c.onArrival != nil {
		c.onArrival(s.ID, floor)
	}
	if !timer.Hold(ctx, c.doorOpenDuration) {
		return false
	}

	c.setDoor(types.DoorsClosing)
	c.log.Debug().Int("floor", floor).Msg("Doors closing")
	if !timer.Hold(ctx, c.doorCloseDuration) {
		return false
	}

	c.mu.Lock()
	if s.Targets.Len() == 0 {
		c.parkLocked()
	} else {
		s.Door = types.Moving
	}
	c.mu.Unlock()
	return true
}

func (c *Car) setDoor(door types.DoorStatus) {
	c.mu.Lock()
	c.state.Door = door
	c.mu.Unlock()
}

// parkLocked leaves the car STOPPED and IDLE. Passengers whose drop-off was
// satisfied in place never got a stop of their own; they leave here.
func (c *Car) parkLocked() {
	s := &c.state
	if s.Door != types.Stopped {
		c.log.Info().Int("floor", s.Floor).Msg("Car parked")
	}
	s.Door = types.Stopped
	s.Dir = types.MD_Idle
	for floor, n := range s.Alights {
		s.Passengers = max(0, s.Passengers-n)
		delete(s.Alights, floor)
	}
}
