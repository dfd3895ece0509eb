package fxdev

// line tracks the bitmask of pending interrupt causes and maps it onto
// the configured signaling mechanism. It carries no locking of its own:
// every method must be called with the device's rendezvous lock held, so
// a raise and an acknowledge can never interleave.
type line struct {
	mode     SignalMode
	mask     uint32
	notify   func()
	setLevel func(bool)
}

// raise ORs bits into the pending mask. On the transition from zero to
// non-zero it emits exactly one notification (message mode) or asserts
// the level line. A raise while the mask is already non-zero signals
// nothing further.
func (l *line) raise(bits uint32) {
	was := l.mask
	l.mask |= bits

	if was != 0 || l.mask == 0 {
		return
	}

	switch l.mode {
	case MessageSignaled:
		if l.notify != nil {
			l.notify()
		}
	case LevelSignaled:
		if l.setLevel != nil {
			l.setLevel(true)
		}
	}
}

// lower clears bits from the pending mask and deasserts the level line
// once no cause is left. Message mode reacts only to the rising edge, so
// there is nothing to do there. Lowering bits that are not pending is a
// no-op.
func (l *line) lower(bits uint32) {
	was := l.mask
	l.mask &^= bits

	if l.mode == LevelSignaled && was != 0 && l.mask == 0 && l.setLevel != nil {
		l.setLevel(false)
	}
}
