package docstore

import (
	"context"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/domain/entity"
	"sync"
	"sync/atomic"
)

type fetchFunc func(context.Context, string, Filter) ([]*entity.Document, error)

// Subscription is a live query handle. Close it exactly when its owner
// goes away; extra calls are no-ops.
type Subscription struct {
	collection string
	filter     Filter
	fn         func([]*entity.Document)
	fetch      fetchFunc
	release    func(*Subscription)

	ctx    context.Context
	cancel context.CancelFunc
	signal chan struct{}
	done   chan struct{}

	closed    atomic.Bool
	deliverMu sync.Mutex
	once      sync.Once
}

func newSubscription(ctx context.Context, collection string, filter Filter, fn func([]*entity.Document), fetch fetchFunc, release func(*Subscription)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	return &Subscription{
		collection: collection,
		filter:     filter,
		fn:         fn,
		fetch:      fetch,
		release:    release,
		ctx:        ctx,
		cancel:     cancel,
		signal:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Close stops deliveries. Once it returns fn is never called again.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.closed.Store(true)
		s.cancel()
		s.release(s)
		// wait out a delivery that is already running
		s.deliverMu.Lock()
		s.deliverMu.Unlock()
	})
}

// Done is closed when the worker has stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// notify never blocks; pending signals coalesce into one refetch.
func (s *Subscription) notify() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *Subscription) run() {
	defer close(s.done)
	defer s.release(s)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.signal:
			docs, err := s.fetch(s.ctx, s.collection, s.filter)
			if err != nil {
				if s.ctx.Err() != nil {
					return
				}
				log.Warnf("failed to refresh %s subscription for %s: %v", s.collection, s.filter.UID, err)
				continue
			}
			s.deliver(docs)
		}
	}
}

func (s *Subscription) deliver(docs []*entity.Document) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if s.closed.Load() {
		return
	}
	s.fn(docs)
}
