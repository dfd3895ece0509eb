package fxdev

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/womat/debug"
)

const (
	// baseUnit is one interval tick, a tenth of a second.
	baseUnit = 100 * time.Millisecond

	// maxJitter bounds the random perturbation added to each sleep, a
	// tenth of one base unit. Cadence stays dominated by the interval.
	maxJitter = 10 * time.Millisecond
)

// cycleDuration computes the worker's sleep for one cycle from the
// configured interval and a fresh random draw. Monotonic in interval and
// bounded above by interval*baseUnit+maxJitter.
func cycleDuration(interval, random uint32) time.Duration {
	jitter := time.Duration(random%uint32(maxJitter/time.Microsecond)) * time.Microsecond
	return time.Duration(interval)*baseUnit + jitter
}

// worker is the interrupt producer. It waits for the driver's first start
// kick, then loops: sleep a jittered interval, raise the interrupt, block
// until the driver kicks again. Back-pressure by construction: a second
// raise cannot happen before the first one is consumed.
func (d *Device) worker() {
	defer close(d.done)

	// armed-wait until the device driver kicks the start register
	if stop := d.rendezvous(); stop {
		return
	}

	buf := make([]byte, 4)

	for {
		// random jitter keeps a fleet of devices from raising in
		// lock-step. The source failing is unrecoverable here: falling
		// back to unjittered timing would defeat the point.
		if _, err := rand.Read(buf); err != nil {
			debug.FatalLog.Printf("worker: random source failed, terminating: %v", err)
			return
		}

		time.Sleep(cycleDuration(d.Interval(), binary.LittleEndian.Uint32(buf)))

		d.thrMu.Lock()
		d.irq.raise(IRQForce)
		d.thrMu.Unlock()

		if stop := d.rendezvous(); stop {
			return
		}
	}
}

// rendezvous blocks until the driver kicks (start or schedule-next write)
// or teardown is requested. The kick flag is latched by the register
// path, so a kick arriving before the wait is not lost. Reports whether
// the worker should terminate.
func (d *Device) rendezvous() bool {
	d.thrMu.Lock()
	defer d.thrMu.Unlock()

	for !d.kick && !d.stopping {
		d.thrCond.Wait()
	}
	d.kick = false
	return d.stopping
}
