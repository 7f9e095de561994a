package dashboard

import (
	"context"
	"sync"

	"github.com/Alias1177/SolarPredictor/models"
)

// Observer receives every published dashboard state. It runs while the
// store is locked and must not call back into the store.
type Observer func(models.DashboardData)

// Store owns the single DashboardData record. Every change replaces the
// record and is delivered to observers in the order it was applied.
type Store struct {
	mu        sync.Mutex
	state     models.DashboardData
	observers []subscription
	nextID    uint64
}

type subscription struct {
	id       uint64
	observer Observer
}

// NewStore creates a store holding the initial at-rest state
func NewStore() *Store {
	return &Store{state: models.InitialDashboardData()}
}

// Snapshot returns the current record
func (s *Store) Snapshot() models.DashboardData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers an observer. The observer is called with the current
// record right away and then once per change until unsubscribe is called.
func (s *Store) Subscribe(observer Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	observer(s.state)
	s.observers = append(s.observers, subscription{id: id, observer: observer})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

// Subscribers returns the number of registered observers
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func (s *Store) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.observers[:0:0]
	for _, sub := range s.observers {
		if sub.id != id {
			kept = append(kept, sub)
		}
	}
	s.observers = kept
}

// Apply builds a new record from the current one and the updates, stores
// it and publishes it. It returns the published record.
func (s *Store) Apply(updates ...Update) models.DashboardData {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	for _, update := range updates {
		update(&next)
	}
	if next.HistoricalData == nil {
		next.HistoricalData = []models.HistoryRow{}
	}
	s.publish(next)
	return next
}

// Reset publishes the initial at-rest record
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish(models.InitialDashboardData())
}

// publish must be called with mu held
func (s *Store) publish(next models.DashboardData) {
	s.state = next
	for _, sub := range s.observers {
		sub.observer(next)
	}
}

// Watch streams the latest record on the returned channel until ctx is
// done. Slow readers skip intermediate records and always see the newest.
func (s *Store) Watch(ctx context.Context) <-chan models.DashboardData {
	ch := make(chan models.DashboardData, 1)

	unsubscribe := s.Subscribe(func(data models.DashboardData) {
		select {
		case ch <- data:
			return
		default:
		}
		// Drop the stale record
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- data:
		default:
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		close(ch)
	}()

	return ch
}
