package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolLimitsConcurrency(t *testing.T) {
	p := NewPool(3)
	assert.Equal(t, 3, p.Size())

	var running, peak int32
	for i := 0; i < 20; i++ {
		p.Go(func() error {
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		})
	}
	require.NoError(t, p.Wait())
	assert.LessOrEqual(t, peak, int32(3))
	assert.Greater(t, peak, int32(0))
}

func TestPoolReportsFirstError(t *testing.T) {
	p := NewPool(0)
	assert.Equal(t, DefaultWorkers(), p.Size())

	boom := errors.New("boom")
	var ran int32
	for i := 0; i < 5; i++ {
		i := i
		p.Go(func() error {
			atomic.AddInt32(&ran, 1)
			if i == 2 {
				return boom
			}
			return nil
		})
	}
	assert.ErrorIs(t, p.Wait(), boom)
	assert.Equal(t, int32(5), ran, "an error does not cancel other tasks")
}

func TestSequentialKeepsOrder(t *testing.T) {
	p := Sequential()
	var mu sync.Mutex
	var order []int
	for i := 0; i < 10; i++ {
		i := i
		p.Go(func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, p.Wait())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func runDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestDispatcherRunsOnLoop(t *testing.T) {
	d := NewDispatcher(8)
	runDispatcher(t, d)

	results := make(chan int, 10)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.True(t, d.Post(func() { results <- i }))
		}(i)
	}
	wg.Wait()

	seen := map[int]bool{}
	for len(seen) < 10 {
		select {
		case i := <-results:
			seen[i] = true
		case <-time.After(2 * time.Second):
			t.Fatal("posted functions did not run")
		}
	}
}

func TestDispatcherDelayed(t *testing.T) {
	d := NewDispatcher(1)
	runDispatcher(t, d)

	start := time.Now()
	fired := make(chan time.Time, 1)
	d.PostDelayed(func() { fired <- time.Now() }, 30*time.Millisecond)

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 30*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("delayed function did not run")
	}
}

func TestDispatcherBufferedRunsOnce(t *testing.T) {
	d := NewDispatcher(4)
	runDispatcher(t, d)

	var count int32
	var last int32
	for i := 1; i <= 5; i++ {
		i := int32(i)
		d.PostBuffered("refresh", func() {
			atomic.AddInt32(&count, 1)
			atomic.StoreInt32(&last, i)
		}, 40*time.Millisecond)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))
	assert.Equal(t, int32(5), atomic.LoadInt32(&last))
}

func TestDispatcherClose(t *testing.T) {
	d := NewDispatcher(2)
	ran := false
	require.True(t, d.Post(func() { ran = true }))
	assert.Equal(t, 1, d.Drain())
	assert.True(t, ran)

	d.Close()
	d.Close()
	assert.False(t, d.Post(func() {}))
	assert.NoError(t, d.Run(context.Background()))
}

func TestPosterFunc(t *testing.T) {
	var got []func()
	p := PosterFunc(func(fn func()) bool {
		got = append(got, fn)
		return true
	})
	assert.True(t, p.Post(func() {}))
	assert.Len(t, got, 1)
}
