//go:build !windows

package irqpin

import (
	"github.com/warthog618/gpiod"
)

// GpiodPin drives a line of the gpio character device.
type GpiodPin struct {
	chip *gpiod.Chip
	line *gpiod.Line
	gpio int
}

// Open requests control of a single output line on gpiochip0, driven low.
// If granted, control is maintained until the Pin is closed.
func Open(gpio int) (Pin, error) {
	c, err := gpiod.NewChip("gpiochip0")
	if err != nil {
		return nil, err
	}

	l, err := c.RequestLine(gpio, gpiod.AsOutput(0))
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	return &GpiodPin{chip: c, line: l, gpio: gpio}, nil
}

// Set drives the line level.
func (p *GpiodPin) Set(asserted bool) error {
	v := 0
	if asserted {
		v = 1
	}
	return p.line.SetValue(v)
}

// Gpio returns the line number.
func (p *GpiodPin) Gpio() int {
	return p.gpio
}

// Close reverts the line to its default state and releases the chip.
func (p *GpiodPin) Close() error {
	if err := p.line.Close(); err != nil {
		return err
	}
	return p.chip.Close()
}
