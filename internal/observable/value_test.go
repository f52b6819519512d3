package observable

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelgrip/internal/scope"
)

func TestSubscribeDeliversCurrentThenUpdates(t *testing.T) {
	v := NewWithValue([]string{"Alien"})

	var got [][]string
	v.Subscribe(func(titles []string) { got = append(got, titles) })
	v.Set([]string{"Aliens"})

	assert.Equal(t, [][]string{{"Alien"}, {"Aliens"}}, got)
}

func TestEmptyValueWaitsForFirstSet(t *testing.T) {
	v := New[int]()

	var got []int
	v.Subscribe(func(n int) { got = append(got, n) })
	assert.Empty(t, got)

	_, ok := v.Get()
	assert.False(t, ok)

	v.Set(7)
	assert.Equal(t, []int{7}, got)
	n, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestUnsubscribeStopsUpdates(t *testing.T) {
	v := New[int]()

	var got []int
	cancel := v.Subscribe(func(n int) { got = append(got, n) })
	v.Set(1)
	cancel()
	cancel()
	v.Set(2)

	assert.Equal(t, []int{1}, got)
	assert.Zero(t, v.Subscribers())
}

func TestObserveUnsubscribesOnTeardown(t *testing.T) {
	s := scope.New(context.Background())
	v := New[string]()

	var got []string
	Observe(s, v, func(x string) { got = append(got, x) })
	require.Equal(t, 1, v.Subscribers())

	v.Set("before")
	s.Teardown()
	v.Set("after")

	assert.Equal(t, []string{"before"}, got)
	assert.Zero(t, v.Subscribers())
}

func TestConcurrentSetsAreDeliveredWhole(t *testing.T) {
	v := New[int]()

	var mu sync.Mutex
	seen := 0
	v.Subscribe(func(int) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v.Set(n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, seen)
}
