package worker

import (
	"context"
	"sync"
	"time"
)

// Poster delivers a function to the goroutine that owns the UI
type Poster interface {
	Post(fn func()) bool
}

// PosterFunc adapts a function to a Poster
type PosterFunc func(fn func()) bool

func (f PosterFunc) Post(fn func()) bool { return f(fn) }

// Dispatcher is an event loop: functions posted from any goroutine run
// one at a time on the goroutine calling Run.
type Dispatcher struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once

	mu      sync.Mutex
	pending map[string]uint64
	timers  map[string]*time.Timer
}

// NewDispatcher creates a dispatcher whose queue holds up to buffer
// functions before Post blocks.
func NewDispatcher(buffer int) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	return &Dispatcher{
		queue:   make(chan func(), buffer),
		done:    make(chan struct{}),
		pending: make(map[string]uint64),
		timers:  make(map[string]*time.Timer),
	}
}

// Post queues fn. It returns false once the dispatcher is closed.
func (d *Dispatcher) Post(fn func()) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.queue <- fn:
		return true
	case <-d.done:
		return false
	}
}

// PostDelayed queues fn after delay
func (d *Dispatcher) PostDelayed(fn func(), delay time.Duration) {
	time.AfterFunc(delay, func() { d.Post(fn) })
}

// PostBuffered queues fn after delay, replacing any call still waiting
// under the same key. Bursts of posts thus run once, delay after the last.
func (d *Dispatcher) PostBuffered(key string, fn func(), delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.pending[key]++
	gen := d.pending[key]
	d.timers[key] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.pending[key] != gen {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		delete(d.timers, key)
		d.mu.Unlock()
		d.Post(fn)
	})
}

// Run executes posted functions until ctx is done or Close is called
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.done:
			return nil
		case fn := <-d.queue:
			fn()
		}
	}
}

// Drain runs whatever is queued right now and returns how many ran
func (d *Dispatcher) Drain() int {
	n := 0
	for {
		select {
		case fn := <-d.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Close stops Run and refuses further posts
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.done)
		d.mu.Lock()
		for _, t := range d.timers {
			t.Stop()
		}
		d.mu.Unlock()
	})
}
