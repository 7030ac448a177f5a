package types

import (
	"slices"
	"sync"
)

// PriorityFloors is the fleet-wide set of floors that get a scoring discount and
// interrupt a car's sweep. Safe for concurrent use.
type PriorityFloors struct {
	mu     sync.RWMutex
	floors map[int]bool
}

func NewPriorityFloors() *PriorityFloors {
	return &PriorityFloors{floors: make(map[int]bool)}
}

// Set marks floor as priority and reports whether it changed anything.
func (p *PriorityFloors) Set(floor int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.floors[floor] {
		return false
	}
	p.floors[floor] = true
	return true
}

// Clear unmarks floor and reports whether it was marked.
func (p *PriorityFloors) Clear(floor int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.floors[floor] {
		return false
	}
	delete(p.floors, floor)
	return true
}

func (p *PriorityFloors) Contains(floor int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.floors[floor]
}

func (p *PriorityFloors) List() []int {
	p.mu.RLock()
	out := make([]int, 0, len(p.floors))
	for floor := range p.floors {
		out = append(out, floor)
	}
	p.mu.RUnlock()
	slices.Sort(out)
	return out
}
