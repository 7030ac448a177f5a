package executor

import "elevfleet/src/types"

// NextFloor picks the floor the car should head for and updates its sweep direction.
//  1. While sweeping, a priority target between the car and the far end of the
//     sweep wins immediately.
//  2. Otherwise take the nearest target ahead; with none ahead, reverse.
//  3. An idle car goes to the closer of the nearest targets above and below,
//     preferring up on a tie.
//
// The current floor itself is never returned; callers serve it before planning.
func NextFloor(s *types.CarState) (int, bool) {
	lowest, ok := s.Targets.First()
	if !ok {
		return 0, false
	}
	highest, _ := s.Targets.Last()

	switch s.Dir {
	case types.MD_Up:
		for floor := s.Floor + 1; floor <= highest; floor++ {
			if s.PriorityTargets.Contains(floor) {
				return floor, true
			}
		}
		if next, ok := s.Targets.Ceiling(s.Floor + 1); ok {
			return next, true
		}
		s.Dir = types.MD_Down
		return s.Targets.FloorOf(s.Floor - 1)

	case types.MD_Down:
		for floor := s.Floor - 1; floor >= lowest; floor-- {
			if s.PriorityTargets.Contains(floor) {
				return floor, true
			}
		}
		if next, ok := s.Targets.FloorOf(s.Floor - 1); ok {
			return next, true
		}
		s.Dir = types.MD_Up
		return s.Targets.Ceiling(s.Floor + 1)

	default:
		higher, okAbove := s.Targets.Ceiling(s.Floor + 1)
		lower, okBelow := s.Targets.FloorOf(s.Floor - 1)
		switch {
		case okAbove && okBelow:
			if higher-s.Floor <= s.Floor-lower {
				s.Dir = types.MD_Up
				return higher, true
			}
			s.Dir = types.MD_Down
			return lower, true
		case okAbove:
			s.Dir = types.MD_Up
			return higher, true
		case okBelow:
			s.Dir = types.MD_Down
			return lower, true
		}
	}
	return 0, false
}

// ShouldStopHere reports whether the car has business at its current floor.
func ShouldStopHere(s *types.CarState) bool {
	return s.OpenHere ||
		s.Targets.Contains(s.Floor) ||
		s.PriorityTargets.Contains(s.Floor)
}

// directionTo is the initial direction for an idle car given a new target.
func directionTo(from, to int) types.MotorDirection {
	if to > from {
		return types.MD_Up
	}
	return types.MD_Down
}
