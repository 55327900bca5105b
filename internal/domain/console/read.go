package console

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/vm"
)

// Read copies up to n bytes of committed input to addr in space of mem.
//
// Read blocks until a line is committed and returns after copying a newline,
// so a call never returns more than one line. A ^D ends the read; if bytes
// were already copied the ^D is left in place so the next call returns 0.
// A failed copy ends the read with the bytes copied so far.
//
// If ctx ends while Read is waiting, it returns ErrInterrupted without
// consuming input.
func (c *Console) Read(ctx context.Context, mem vm.Copier, space vm.Space, addr uint64, n int) (int, error) {
	stop := context.AfterFunc(ctx, c.wakeReaders)
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	target := n
	var cbuf [1]byte
	for n > 0 {
		for c.in.r == c.in.w {
			if ctx.Err() != nil {
				c.rec.ReadInterrupted()
				c.logger.Debug("Read interrupted", zap.Error(context.Cause(ctx)))
				return 0, ErrInterrupted
			}
			c.readable.Wait()
		}

		ch := c.in.buf[c.in.r%InputSize]
		c.in.r++

		if ch == EndOfFile {
			if n < target {
				c.in.r--
			}
			break
		}

		cbuf[0] = ch
		if err := mem.CopyOut(space, addr, cbuf[:]); err != nil {
			c.logger.Debug("Read copy failed", zap.Stringer("space", space), zap.Uint64("addr", addr), zap.Error(err))
			break
		}
		addr++
		n--

		if ch == '\n' {
			break
		}
	}

	c.rec.ReadCompleted(target - n)
	return target - n, nil
}

// Write sends n bytes from addr in space of mem to the transport. A failed
// copy or a cancelled send ends the write with the bytes sent so far.
func (c *Console) Write(ctx context.Context, mem vm.Copier, space vm.Space, addr uint64, n int) (int, error) {
	var cbuf [1]byte
	i := 0
	for ; i < n; i++ {
		if err := mem.CopyIn(cbuf[:], space, addr+uint64(i)); err != nil {
			break
		}
		if err := c.tx.Putc(ctx, cbuf[0]); err != nil {
			break
		}
	}
	c.rec.BytesWritten(i)
	return i, nil
}
