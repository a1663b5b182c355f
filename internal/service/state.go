package service

import (
	"sync"
)

// Snapshot is a read-only copy of a store's state
type Snapshot[T any] struct {
	Value   T    `json:"value"`
	Loading bool `json:"loading"`
}

// state is the mutable core shared by the stores: the held value, an
// in-flight counter behind the loading flag, per-operation request
// sequence numbers, and subscribers.
type state[T any] struct {
	mu        sync.RWMutex
	value     T
	initial   func() T
	clone     func(T) T
	inFlight  int
	sequenced bool
	issued    map[string]uint64
	committed map[string]uint64

	// notifyMu serializes mutations with their notifications.
	notifyMu sync.Mutex
	subs     map[int]func(Snapshot[T])
	nextSub  int
}

func newState[T any](initial func() T, clone func(T) T, sequenced bool) *state[T] {
	return &state[T]{
		value:     initial(),
		initial:   initial,
		clone:     clone,
		sequenced: sequenced,
		issued:    make(map[string]uint64),
		committed: make(map[string]uint64),
		subs:      make(map[int]func(Snapshot[T])),
	}
}

func (s *state[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{Value: s.clone(s.value), Loading: s.inFlight > 0}
}

func (s *state[T]) snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *state[T]) loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// update applies fn under the write lock and notifies subscribers.
// fn reports whether anything changed. Subscribers run synchronously, in
// mutation order, and may read the store but must not change it.
func (s *state[T]) update(fn func() bool) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}
	subs := make([]func(Snapshot[T]), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	snaps := make([]Snapshot[T], len(subs))
	for i := range subs {
		snaps[i] = s.snapshotLocked()
	}
	s.mu.Unlock()

	for i, sub := range subs {
		sub(snaps[i])
	}
	return true
}

// begin marks a request of kind op in flight and returns its sequence number.
// Every begin must be paired with a deferred done.
func (s *state[T]) begin(op string) uint64 {
	var seq uint64
	s.update(func() bool {
		s.inFlight++
		s.issued[op]++
		seq = s.issued[op]
		return true
	})
	return seq
}

func (s *state[T]) done() {
	s.update(func() bool {
		s.inFlight--
		return true
	})
}

// commit applies fn to the held value unless sequencing is on and a request
// of kind op issued after seq has already committed.
func (s *state[T]) commit(op string, seq uint64, fn func(T) T) bool {
	return s.update(func() bool {
		if s.sequenced && seq < s.committed[op] {
			return false
		}
		s.committed[op] = seq
		s.value = fn(s.value)
		return true
	})
}

// apply changes the held value regardless of sequencing.
func (s *state[T]) apply(fn func(T) T) {
	s.update(func() bool {
		s.value = fn(s.value)
		return true
	})
}

// reset restores the initial value. With sequencing, responses to requests
// issued before the reset are dropped.
func (s *state[T]) reset() {
	s.update(func() bool {
		s.value = s.initial()
		for op, seq := range s.issued {
			s.committed[op] = seq + 1
		}
		return true
	})
}

func (s *state[T]) subscribe(fn func(Snapshot[T])) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
