package reactive

// Scheduler runs keyed recomputes, coalescing repeats raised inside a batch.
// It is meant for a single goroutine, the one driving the render loop.
type Scheduler struct {
	depth   int
	running bool
	order   []string
	queued  map[string]func()

	// Settled runs once after every top-level recompute or batch flush
	Settled func()
}

// Schedule runs fn now, or once at the end of the open batch when the same
// key was already queued.
func (s *Scheduler) Schedule(key string, fn func()) {
	if s.depth > 0 || s.running {
		s.enqueue(key, fn)
		return
	}
	s.running = true
	fn()
	s.drain()
	s.running = false
	s.settle()
}

// Batch defers every Schedule call made inside fn until fn returns
func (s *Scheduler) Batch(fn func()) {
	s.depth++
	fn()
	s.depth--
	if s.depth > 0 || s.running {
		return
	}
	s.running = true
	s.drain()
	s.running = false
	s.settle()
}

// Pending returns the number of queued recomputes
func (s *Scheduler) Pending() int { return len(s.order) }

func (s *Scheduler) enqueue(key string, fn func()) {
	if s.queued == nil {
		s.queued = make(map[string]func())
	}
	if _, ok := s.queued[key]; !ok {
		s.order = append(s.order, key)
	}
	s.queued[key] = fn
}

// drain runs queued recomputes in first-queued order, including any queued
// while draining
func (s *Scheduler) drain() {
	for len(s.order) > 0 {
		key := s.order[0]
		s.order = s.order[1:]
		fn := s.queued[key]
		delete(s.queued, key)
		fn()
	}
}

func (s *Scheduler) settle() {
	if s.Settled != nil {
		s.Settled()
	}
}
