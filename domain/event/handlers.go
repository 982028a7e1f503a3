package event

import "sync"

// Handler Each kind of telemetry event has its own handler.
// Based on the chain of responsibility pattern: every handler sees every
// event and acts only on the types it knows.
type Handler interface {
	Handle(event Event)
}

// Counter tracks how many events of each type were observed.
type Counter struct {
	mu     sync.Mutex
	counts map[Type]uint64
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[Type]uint64)}
}

func (c *Counter) Increment(t Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[t]++
}

func (c *Counter) Get(t Type) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[t]
}
