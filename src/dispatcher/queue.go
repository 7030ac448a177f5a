package dispatcher

import (
	"sync"

	"elevfleet/src/timer"
	"elevfleet/src/types"
)

// requestQueue is an unbounded FIFO of pending requests. ready is signalled on
// every push so the dispatch loop can wait on it with a timeout.
type requestQueue struct {
	mu    sync.Mutex
	items []types.Request
	ready chan struct{}
}

func newRequestQueue() *requestQueue {
	return &requestQueue{ready: make(chan struct{}, 1)}
}

func (q *requestQueue) Push(req types.Request) {
	q.mu.Lock()
	q.items = append(q.items, req)
	q.mu.Unlock()
	timer.Notify(q.ready)
}

func (q *requestQueue) Pop() (types.Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	req := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return req, true
}

func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
