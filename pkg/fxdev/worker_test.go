package fxdev

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleDurationBounds(t *testing.T) {
	for _, interval := range []uint32{0, 1, 5, 10, 600} {
		base := time.Duration(interval) * baseUnit

		assert.GreaterOrEqual(t, cycleDuration(interval, 0), base)
		assert.Less(t, cycleDuration(interval, ^uint32(0)), base+maxJitter)
	}
}

func TestCycleDurationMonotonic(t *testing.T) {
	const random = 12345

	prev := cycleDuration(0, random)
	for interval := uint32(1); interval <= 100; interval++ {
		cur := cycleDuration(interval, random)
		require.GreaterOrEqual(t, cur, prev, "interval %d", interval)
		prev = cur
	}
}

// waitNotify fails the test if no notification arrives within the timeout.
func waitNotify(t *testing.T, ch <-chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatal("no interrupt within bounded time")
	}
}

// TestArmRaiseAckCycle drives a full device driver session: arm the
// worker via the start register, observe the interrupt, acknowledge it
// and schedule the next cycle.
func TestArmRaiseAckCycle(t *testing.T) {
	notify := make(chan struct{}, 1)
	d := New(Config{
		Interval: 1,
		Notify: func() {
			select {
			case notify <- struct{}{}:
			default:
			}
		},
	})

	d.Start()
	defer d.Stop()

	// armed-wait: nothing happens before the start register is written
	select {
	case <-notify:
		t.Fatal("interrupt before the driver armed the worker")
	case <-time.After(300 * time.Millisecond):
	}

	d.MMIOWrite(RegStart, 0, 4)
	waitNotify(t, notify, 2*time.Second)
	assert.Equal(t, uint64(IRQForce), d.MMIORead(RegIRQStatus, 4))

	// back-pressure: no second raise before the first is consumed
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, uint64(IRQForce), d.MMIORead(RegIRQStatus, 4))
	select {
	case <-notify:
		t.Fatal("second raise before acknowledge")
	default:
	}

	d.MMIOWrite(RegIRQAck, IRQForce, 4)
	assert.Equal(t, uint64(0), d.MMIORead(RegIRQStatus, 4))

	// the schedule-next write releases the rendezvous and the worker
	// produces a further cycle without terminating
	d.MMIOWrite(RegScheduleNext, 0, 4)
	waitNotify(t, notify, 2*time.Second)
	assert.Equal(t, uint64(IRQForce), d.MMIORead(RegIRQStatus, 4))
}

// TestStopUnblocksRendezvous tears the device down while the worker is
// blocked in its post-raise wait. The worker must terminate within one
// signal round trip instead of waiting for a full sleep interval.
func TestStopUnblocksRendezvous(t *testing.T) {
	notify := make(chan struct{}, 1)
	d := New(Config{
		Interval: 1,
		Notify: func() {
			select {
			case notify <- struct{}{}:
			default:
			}
		},
	})

	d.Start()
	d.MMIOWrite(RegStart, 0, 4)
	waitNotify(t, notify, 2*time.Second)

	// a long next cycle: if stop were only observed after another sleep,
	// this test would take seconds
	d.SetInterval(100)

	done := make(chan struct{})
	start := time.Now()
	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not join the worker")
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestStopWhileArmedWait(t *testing.T) {
	d := New(Config{Interval: 1})
	d.Start()

	done := make(chan struct{})
	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not release the armed-wait")
	}
}

func TestStopWithoutStart(t *testing.T) {
	d := New(Config{})
	d.Stop()
}

func TestIntervalPublishAndReadBack(t *testing.T) {
	d := New(Config{})
	assert.Equal(t, uint32(DefaultInterval), d.Interval())

	d.SetInterval(5)
	assert.Equal(t, uint32(5), d.Interval())

	d.SetInterval(42)
	assert.Equal(t, uint32(42), d.Interval())
}

// TestKickLatched writes the start register before the worker can
// possibly be waiting yet; the kick must not be lost.
func TestKickLatched(t *testing.T) {
	notify := make(chan struct{}, 1)
	d := New(Config{
		Interval: 1,
		Notify: func() {
			select {
			case notify <- struct{}{}:
			default:
			}
		},
	})

	d.MMIOWrite(RegStart, 0, 4)
	d.Start()
	defer d.Stop()

	waitNotify(t, notify, 2*time.Second)
}
