// Package irqpin mirrors the level-style interrupt line of the fx device
// on a physical gpio output, for hardware-in-the-loop setups where an
// external controller watches the line instead of polling the status
// register.
package irqpin

// Pin is a single requested output line.
type Pin interface {
	// Set drives the line: asserted maps to high, deasserted to low.
	Set(asserted bool) error
	// Gpio returns the BCM gpio number this pin represents.
	Gpio() int
	// Close releases all resources held by the requested line.
	Close() error
}
