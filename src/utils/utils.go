package utils

// Abs returns the absolute value of x.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// StepToward returns the floor one step from `from` in the direction of `to`.
func StepToward(from, to int) int {
	switch {
	case to > from:
		return from + 1
	case to < from:
		return from - 1
	default:
		return from
	}
}
