package fxdev

// regSize is the only supported access width. The register bus has no
// error reporting channel, so everything else degrades to a no-op.
const regSize = 4

// MMIORead decodes a read of the register surface. Unsupported widths and
// unmapped offsets read as all-ones. Reads never block and never fail.
func (d *Device) MMIORead(offs uint64, size int) uint64 {
	if size != regSize {
		return allOnes
	}

	switch offs {
	case RegID:
		return IDValue
	case RegLiveness:
		return LivenessValue
	case RegIRQStatus:
		d.thrMu.Lock()
		defer d.thrMu.Unlock()
		return uint64(d.irq.mask)
	case RegScheduleNext, RegStart, RegIRQRaise, RegIRQAck:
		return 0
	}

	return allOnes
}

// MMIOWrite decodes a write to the register surface. Unsupported widths,
// unmapped offsets and writes to read-only registers are silently
// ignored. Writes never block and never fail.
func (d *Device) MMIOWrite(offs uint64, val uint64, size int) {
	if size != regSize {
		return
	}

	switch offs {
	case RegStart, RegScheduleNext:
		// the driver's kick: releases the worker from armed-wait or
		// acknowledges the rendezvous after a raise.
		d.thrMu.Lock()
		d.kick = true
		d.thrCond.Signal()
		d.thrMu.Unlock()
	case RegIRQRaise:
		// deliberately not wired: only the worker can raise interrupts,
		// the driver cannot force one.
	case RegIRQAck:
		d.thrMu.Lock()
		d.irq.lower(uint32(val))
		d.thrMu.Unlock()
	}
}
