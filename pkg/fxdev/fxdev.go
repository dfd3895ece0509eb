// Package fxdev implements the fx virtual peripheral: a word addressed
// register file, an interrupt line and a background worker raising
// interrupts at a jittered, reconfigurable cadence.
package fxdev

import (
	"sync"
)

// register offsets, all accesses are exactly 4 bytes wide
const (
	RegID           = 0x00
	RegLiveness     = 0x04
	RegScheduleNext = 0x08
	RegIRQStatus    = 0x24
	RegStart        = 0x30
	RegIRQRaise     = 0x60
	RegIRQAck       = 0x64
)

const (
	// IDValue lets the device driver check the version. 0xMMmm0ed
	IDValue = 0x01000ed

	// LivenessValue is a fixed sentinel for driver sanity checks.
	LivenessValue = 0xdeadbeef

	// DefaultInterval is the default base period in tenths of a second.
	DefaultInterval = 10

	// IRQForce is the cause bit raised by the worker.
	IRQForce = 0x1
)

// allOnes is returned for unmapped offsets and unsupported access widths.
const allOnes = ^uint64(0)

// SignalMode selects how a pending interrupt is signaled to the host.
type SignalMode int

const (
	// MessageSignaled emits one discrete notification per transition of
	// the pending mask from zero to non-zero (msi style).
	MessageSignaled SignalMode = iota
	// LevelSignaled holds the line asserted while any cause bit is
	// pending and deasserts it when the mask returns to zero.
	LevelSignaled
)

// Config describes a device instance.
type Config struct {
	// Mode selects message or level style interrupt signaling.
	Mode SignalMode

	// Interval is the initial base period in tenths of a second.
	// 0 selects DefaultInterval.
	Interval uint32

	// Notify is called on each rising edge in MessageSignaled mode.
	// SetLevel is called with the new line state in LevelSignaled mode.
	// Both are invoked while the device holds its rendezvous lock and
	// must not block.
	Notify   func()
	SetLevel func(bool)
}

// Device is one fx device instance. All shared state lives here, guarded
// by two independent locks: thrMu is the rendezvous lock shared by the
// interrupt mask and the worker handshake, confMu guards the interval.
// The two are split so a configuration update can never stall interrupt
// delivery.
type Device struct {
	// thrMu guards irq, kick and stopping and is the lock of thrCond.
	thrMu   sync.Mutex
	thrCond *sync.Cond
	// kick latches a start/schedule-next register write until the worker
	// waits, so a signal sent before the wait is never lost.
	kick     bool
	stopping bool
	irq      line

	// confMu guards interval. Written by the configuration channel,
	// read by the worker once per cycle.
	confMu   sync.Mutex
	interval uint32

	running bool
	done    chan struct{}
}

// New builds a device. The worker is not started until Start is called.
func New(cfg Config) *Device {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}

	d := &Device{
		irq: line{
			mode:     cfg.Mode,
			notify:   cfg.Notify,
			setLevel: cfg.SetLevel,
		},
		interval: cfg.Interval,
		done:     make(chan struct{}),
	}
	d.thrCond = sync.NewCond(&d.thrMu)
	return d
}

// Start launches the worker. The worker begins in armed-wait and produces
// nothing until the driver writes the start register.
func (d *Device) Start() {
	if d.running {
		return
	}
	d.running = true
	go d.worker()
}

// Stop requests worker termination, unblocks a worker waiting for an
// acknowledgment and joins it. Safe to call while the worker is mid-sleep
// or mid-wait; it can never be left blocked afterwards.
func (d *Device) Stop() {
	if !d.running {
		return
	}

	d.thrMu.Lock()
	d.stopping = true
	d.thrMu.Unlock()
	d.thrCond.Broadcast()

	<-d.done
	d.running = false
}

// Interval returns the current base period in tenths of a second.
func (d *Device) Interval() uint32 {
	d.confMu.Lock()
	defer d.confMu.Unlock()
	return d.interval
}

// SetInterval publishes a new base period. It takes effect no later than
// the worker's next sleep computation; a sleep already in progress is not
// affected.
func (d *Device) SetInterval(interval uint32) {
	d.confMu.Lock()
	d.interval = interval
	d.confMu.Unlock()
}
