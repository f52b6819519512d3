// Package observable holds values that push updates to subscribers.
package observable

import (
	"sync"

	"reelgrip/internal/scope"
)

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Value holds the latest T and the functions subscribed to it.
// Subscribers must not call Set on the value they are notified by.
type Value[T any] struct {
	deliver sync.Mutex // serializes notifications so subscribers see updates in order

	mu     sync.Mutex
	value  T
	hasVal bool
	subs   []subscriber[T]
	nextID uint64
}

// New returns an empty value; subscribers are not called until the first Set
func New[T any]() *Value[T] {
	return &Value[T]{}
}

// NewWithValue returns a value that already holds v
func NewWithValue[T any](v T) *Value[T] {
	return &Value[T]{value: v, hasVal: true}
}

// Get returns the current value and whether one was ever set
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, v.hasVal
}

// Set stores x and notifies every subscriber
func (v *Value[T]) Set(x T) {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	v.value = x
	v.hasVal = true
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(x)
	}
}

// Subscribe calls fn with the current value, if any, and then with every
// later update until the returned function is called.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	current, ok := v.value, v.hasVal
	v.mu.Unlock()

	if ok {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() { v.unsubscribe(id) })
	}
}

// Subscribers returns the number of active subscriptions
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

func (v *Value[T]) unsubscribe(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, s := range v.subs {
		if s.id == id {
			v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
			return
		}
	}
}

// Observe subscribes fn to v for as long as s lives
func Observe[T any](s *scope.Scope, v *Value[T], fn func(T)) {
	cancel := v.Subscribe(fn)
	s.OnTeardown(cancel)
}
