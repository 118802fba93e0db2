package reactive

import "sync"

// Group collects unsubscribe functions so they can be released together
type Group struct {
	mu     sync.Mutex
	stops  []func()
	closed bool
}

// Add registers an unsubscribe function. Adding to a closed group releases
// the subscription immediately.
func (g *Group) Add(stop func()) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		stop()
		return
	}
	g.stops = append(g.stops, stop)
	g.mu.Unlock()
}

// Close releases every registered subscription in reverse order
func (g *Group) Close() {
	g.mu.Lock()
	stops := g.stops
	g.stops = nil
	g.closed = true
	g.mu.Unlock()

	for i := len(stops) - 1; i >= 0; i-- {
		stops[i]()
	}
}

// Reset releases every subscription and leaves the group usable
func (g *Group) Reset() {
	g.mu.Lock()
	stops := g.stops
	g.stops = nil
	g.mu.Unlock()

	for i := len(stops) - 1; i >= 0; i-- {
		stops[i]()
	}
}

// Len returns the number of held subscriptions
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.stops)
}
