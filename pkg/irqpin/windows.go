//go:build windows

package irqpin

import (
	"github.com/womat/debug"
)

// EmuPin emulates an output line on systems without gpio memory,
// only for testing in windows mode.
type EmuPin struct {
	gpio  int
	level bool
}

// Open creates a new emulated pin object.
func Open(gpio int) (Pin, error) {
	return &EmuPin{gpio: gpio}, nil
}

// Set records the requested line level.
func (p *EmuPin) Set(asserted bool) error {
	p.level = asserted
	debug.TraceLog.Printf("emulated irq pin %v set to %v", p.gpio, asserted)
	return nil
}

// Gpio returns the configured pin number.
func (p *EmuPin) Gpio() int {
	return p.gpio
}

// Close releases the emulated pin.
func (p *EmuPin) Close() error {
	return nil
}
