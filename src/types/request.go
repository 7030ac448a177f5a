package types

import "github.com/xyproto/randomstring"

const requestIDLen = 6

// Request is one of ExternalCall, InternalCall or CompleteTrip.
type Request interface {
	Kind() string
	TraceID() string
}

// PickupRequest is implemented by requests that start at a hall call.
type PickupRequest interface {
	Request
	Pickup() (floor int, dir HallType)
}

// ExternalCall is a hall button press: someone waits at Floor wanting to go Dir.
type ExternalCall struct {
	ID    string
	Floor int
	Dir   HallType
}

// InternalCall is a cab button press from a passenger already inside a car.
type InternalCall struct {
	ID    string
	Floor int
}

// CompleteTrip carries both the pickup and the drop-off floor.
type CompleteTrip struct {
	ID   string
	From int
	To   int
}

func NewExternalCall(floor int, dir HallType) ExternalCall {
	return ExternalCall{ID: newRequestID(), Floor: floor, Dir: dir}
}

func NewInternalCall(floor int) InternalCall {
	return InternalCall{ID: newRequestID(), Floor: floor}
}

func NewCompleteTrip(from, to int) CompleteTrip {
	return CompleteTrip{ID: newRequestID(), From: from, To: to}
}

func (r ExternalCall) Kind() string    { return "external" }
func (r ExternalCall) TraceID() string { return r.ID }
func (r ExternalCall) Pickup() (int, HallType) {
	return r.Floor, r.Dir
}

func (r InternalCall) Kind() string    { return "internal" }
func (r InternalCall) TraceID() string { return r.ID }

func (r CompleteTrip) Kind() string    { return "trip" }
func (r CompleteTrip) TraceID() string { return r.ID }

// Dir is derived from the floor pair. A trip to the same floor counts as DOWN.
func (r CompleteTrip) Dir() HallType {
	if r.To > r.From {
		return HallUp
	}
	return HallDown
}

func (r CompleteTrip) Pickup() (int, HallType) {
	return r.From, r.Dir()
}

func newRequestID() string {
	return randomstring.EnglishFrequencyString(requestIDLen)
}
