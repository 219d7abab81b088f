package session

import (
	"sync"

	"github.com/vkarpova/atlasinfo/internal/models"
)

// observable holds the live session state and fans transitions out to
// subscribers. Every subscriber first receives the value current at
// subscription time, then every later transition in emission order.
// Deliveries are queued per subscriber, so a slow consumer delays only
// itself and never loses a transition.
type observable struct {
	mu    sync.Mutex
	value models.SessionState
	subs  map[*subscriber]struct{}
}

func newObservable(initial models.SessionState) *observable {
	return &observable{
		value: initial,
		subs:  make(map[*subscriber]struct{}),
	}
}

func (o *observable) get() models.SessionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

func (o *observable) set(v models.SessionState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = v
	for s := range o.subs {
		s.push(v)
	}
}

// subscribe registers a new subscriber. The cancel function releases it;
// afterwards the returned channel is closed.
func (o *observable) subscribe() (<-chan models.SessionState, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := newSubscriber(o.value)
	o.subs[s] = struct{}{}
	go s.run()

	cancel := func() {
		o.mu.Lock()
		delete(o.subs, s)
		o.mu.Unlock()
		s.stop()
	}
	return s.out, cancel
}

// close releases all subscribers.
func (o *observable) close() {
	o.mu.Lock()
	subs := make([]*subscriber, 0, len(o.subs))
	for s := range o.subs {
		subs = append(subs, s)
	}
	o.subs = make(map[*subscriber]struct{})
	o.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

type subscriber struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue []models.SessionState
	out   chan models.SessionState
	done  chan struct{}
	stopd bool
}

func newSubscriber(initial models.SessionState) *subscriber {
	s := &subscriber{
		queue: []models.SessionState{initial},
		out:   make(chan models.SessionState),
		done:  make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *subscriber) push(v models.SessionState) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *subscriber) stop() {
	s.mu.Lock()
	if s.stopd {
		s.mu.Unlock()
		return
	}
	s.stopd = true
	close(s.done)
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *subscriber) run() {
	defer close(s.out)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.stopd {
			s.cond.Wait()
		}
		if s.stopd {
			s.mu.Unlock()
			return
		}
		v := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
