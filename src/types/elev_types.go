package types

// CarState is the full mutable state of one car. Owned by executor.Car and
// only handed out as deep copies.
type CarState struct {
	ID              int
	Floor           int
	Dir             MotorDirection
	Door            DoorStatus
	Targets         FloorSet
	PriorityTargets FloorSet
	Passengers      int
	Capacity        int
	Alights         map[int]int // floor -> passengers leaving there
	OpenHere        bool        // door cycle requested at the current floor
	Held            map[int][]HeldTarget
}

// HeldTarget is a drop-off on the floor the car stood on when its trip was
// assigned. It becomes a target once the trip's pickup floor is served.
type HeldTarget struct {
	Floor    int
	Priority bool
}

func (s CarState) IsFull() bool {
	return s.Passengers >= s.Capacity
}

// CarStatus is the read-only view of a car handed to callers of Snapshot.
type CarStatus struct {
	ID         int
	Floor      int
	Dir        MotorDirection
	Door       DoorStatus
	Passengers int
	Capacity   int
	Targets    []int
}

type FleetStatus struct {
	Cars           []CarStatus
	QueueDepth     int
	PriorityFloors []int
	StopsServed    int64
}
