package types

type MotorDirection int

const (
	MD_Up   MotorDirection = 1
	MD_Down MotorDirection = -1
	MD_Idle MotorDirection = 0
)

func (d MotorDirection) String() string {
	switch d {
	case MD_Up:
		return "UP"
	case MD_Down:
		return "DOWN"
	default:
		return "IDLE"
	}
}

// HallType is the travel direction a waiting passenger asked for.
type HallType int

const (
	HallUp HallType = iota
	HallDown
)

func (h HallType) String() string {
	if h == HallDown {
		return "DOWN"
	}
	return "UP"
}

// DoorStatus is the car behaviour as seen from the outside.
type DoorStatus int

const (
	Stopped DoorStatus = iota
	Moving
	DoorsOpen
	DoorsClosing
)

func (s DoorStatus) String() string {
	switch s {
	case Moving:
		return "MOVING"
	case DoorsOpen:
		return "DOORS_OPEN"
	case DoorsClosing:
		return "DOORS_CLOSING"
	default:
		return "STOPPED"
	}
}
