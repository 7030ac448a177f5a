package dispatcher

import (
	"math"

	"elevfleet/src/executor"
	"elevfleet/src/types"
)

// handleRequest routes one request and reports whether it was consumed.
// false means no car could take it and it belongs back on the queue.
func (d *Dispatcher) handleRequest(req types.Request) bool {
	switch r := req.(type) {
	case types.ExternalCall:
		return d.handleExternalCall(r)
	case types.CompleteTrip:
		return d.handleCompleteTrip(r)
	case types.InternalCall:
		d.handleInternalCall(r)
		return true
	default:
		d.log.Error().Str("request", req.TraceID()).Msgf("Unknown request type %T, dropping", req)
		return true
	}
}

func (d *Dispatcher) handleExternalCall(req types.ExternalCall) bool {
	car, ok := d.findBestCar(req)
	if !ok {
		d.log.Warn().Str("request", req.ID).Int("floor", req.Floor).Msg("No car available for external call, requeueing")
		return false
	}

	if !car.TryAssign(req.Floor, d.priority.Contains(req.Floor)) {
		d.log.Warn().Str("request", req.ID).Int("car", car.ID()).Msg("Car filled up before assignment, requeueing")
		return false
	}
	d.log.Info().
		Str("request", req.ID).
		Int("floor", req.Floor).
		Stringer("dir", req.Dir).
		Int("car", car.ID()).
		Msg("Pickup assigned")
	return true
}

// handleCompleteTrip assigns both floors to one car and boards the passenger.
// A car that filled up since it was scored leaves the trip queued.
func (d *Dispatcher) handleCompleteTrip(req types.CompleteTrip) bool {
	car, ok := d.findBestCar(req)
	if !ok {
		d.log.Warn().Str("request", req.ID).Int("from", req.From).Int("to", req.To).Msg("No car available for trip, requeueing")
		return false
	}

	if !car.TryAssignTrip(req.From, req.To, d.priority.Contains(req.From), d.priority.Contains(req.To)) {
		d.log.Warn().Str("request", req.ID).Int("car", car.ID()).Msg("Car full, passenger not boarded, requeueing")
		return false
	}
	d.log.Info().
		Str("request", req.ID).
		Int("from", req.From).
		Int("to", req.To).
		Int("car", car.ID()).
		Msg("Trip assigned, passenger boarded")
	return true
}

// handleInternalCall gives the destination to the first car with open doors.
// Without one the call is dropped: nobody can be inside a car that is not open.
func (d *Dispatcher) handleInternalCall(req types.InternalCall) {
	isPriority := d.priority.Contains(req.Floor)
	for _, car := range d.cars {
		if car.AddTargetIfDoorsOpen(req.Floor, isPriority) {
			d.log.Info().Str("request", req.ID).Int("floor", req.Floor).Int("car", car.ID()).Msg("Destination assigned")
			return
		}
	}
	d.log.Warn().Str("request", req.ID).Int("floor", req.Floor).Msg("No car with open doors, dropping internal call")
}

// findBestCar returns the non-full car with the strictly lowest score; the
// first car in fleet order wins ties.
func (d *Dispatcher) findBestCar(req types.PickupRequest) (*executor.Car, bool) {
	var best *executor.Car
	bestScore := math.MaxInt

	for _, car := range d.cars {
		st := car.State()
		if st.IsFull() {
			continue
		}
		s := d.scoreFor(st, req)
		d.log.Debug().Str("request", req.TraceID()).Int("car", st.ID).Int("score", s).Msg("Scored car")
		if s < bestScore {
			bestScore = s
			best = car
		}
	}
	return best, best != nil
}

// scoreFor applies the priority discount for the call floor only.
func (d *Dispatcher) scoreFor(car types.CarState, req types.PickupRequest) int {
	floor, dir := req.Pickup()
	return score(car, floor, dir, d.priority.Contains(floor))
}
