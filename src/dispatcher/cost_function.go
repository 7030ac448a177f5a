package dispatcher

import (
	"elevfleet/src/types"
	"elevfleet/src/utils"
)

// score rates how well a car fits a pickup at callFloor going dir. Lower is
// better and the result is never negative.
//   - 10 per floor of distance
//   - 30 if the car is sweeping but not toward the call in the caller's direction
//   - 3 per passenger, 15 per pending target
//   - bonuses: idle -40, empty -20, priority call floor -30, parked -25
//
// The clamp is applied last so the terms can be checked independently.
func score(car types.CarState, callFloor int, dir types.HallType, callIsPriority bool) int {
	cost := 10 * utils.Abs(car.Floor-callFloor)

	if car.Dir != types.MD_Idle && !headingToward(car, callFloor, dir) {
		cost += 30
	}
	cost += 3 * car.Passengers
	cost += 15 * car.Targets.Len()

	if car.Dir == types.MD_Idle {
		cost -= 40
	}
	if car.Passengers == 0 {
		cost -= 20
	}
	if callIsPriority {
		cost -= 30
	}
	if car.Door == types.Stopped {
		cost -= 25
	}
	return max(0, cost)
}

// headingToward holds when the car already sweeps toward callFloor in the
// direction the caller wants to travel.
func headingToward(car types.CarState, callFloor int, dir types.HallType) bool {
	switch car.Dir {
	case types.MD_Up:
		return callFloor >= car.Floor && dir == types.HallUp
	case types.MD_Down:
		return callFloor <= car.Floor && dir == types.HallDown
	}
	return false
}
