package console

// inputBuffer is the input ring. The counters only grow; unsigned
// subtraction keeps e-r and e-w correct across wraparound.
type inputBuffer struct {
	buf [InputSize]byte
	r   uint // read index
	w   uint // write index
	e   uint // edit index
}

// used returns the bytes held, committed and editing.
func (b *inputBuffer) used() uint { return b.e - b.r }

// full reports whether no byte can be added.
func (b *inputBuffer) full() bool { return b.used() >= InputSize }

func (b *inputBuffer) put(c byte) {
	b.buf[b.e%InputSize] = c
	b.e++
}

// editing returns a copy of [w, e).
func (b *inputBuffer) editing() []byte {
	line := make([]byte, 0, b.e-b.w)
	for i := b.w; i != b.e; i++ {
		line = append(line, b.buf[i%InputSize])
	}
	return line
}

// emit sends c to the transport, drawing erase as backspace-space-backspace.
func (c *Console) emit(ch int) {
	if ch == erase {
		c.tx.PutcSync('\b')
		c.tx.PutcSync(' ')
		c.tx.PutcSync('\b')
		return
	}
	c.tx.PutcSync(byte(ch))
}

// eraseChar removes the last edited byte, if any.
func (c *Console) eraseChar() {
	if c.in.e != c.in.w {
		c.in.e--
		c.emit(erase)
	}
}

// eraseToLineStart removes the whole line being edited.
func (c *Console) eraseToLineStart() {
	for c.in.e != c.in.w {
		c.in.e--
		c.emit(erase)
	}
}

// insert echoes and stores line into the edit region, stopping when the
// buffer fills.
func (c *Console) insert(line []byte) {
	for _, ch := range line {
		if c.in.full() {
			return
		}
		c.emit(int(ch))
		c.in.put(ch)
	}
}
