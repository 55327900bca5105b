package console

import (
	"bytes"

	"go.uber.org/zap"
)

// Intr handles one received byte. It is called from the transport's receive
// path and never blocks on readers.
func (c *Console) Intr(ch byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ch {
	case RecallOlder:
		line, ok := c.hist.older()
		if !ok {
			break
		}
		c.recall(line)
		c.rec.HistoryRecalled("older")
		c.logger.Debug("History recall", zap.String("direction", "older"), zap.Int("cursor", c.hist.cur))
	case RecallNewer:
		line, ok := c.hist.newer()
		if !ok {
			break
		}
		c.recall(line)
		c.rec.HistoryRecalled("newer")
		c.logger.Debug("History recall",
			zap.String("direction", "newer"),
			zap.Int("cursor", c.hist.cur),
			zap.Bool("browsing", c.hist.browsing()),
		)
	case ProcDump:
		c.dumper.Dump()
	case KillLine:
		c.eraseToLineStart()
	case Backspace, Delete:
		c.eraseChar()
	default:
		if ch == 0 || c.in.full() {
			break
		}
		if ch == '\r' {
			ch = '\n'
		}
		c.emit(int(ch))
		c.in.put(ch)

		if ch == '\n' || ch == EndOfFile || c.in.full() {
			c.commit(ch == '\n')
		}
	}
}

// recall replaces the line being edited with line. The saved newline is not
// copied, so the edit region stays free of newlines.
func (c *Console) recall(line []byte) {
	c.eraseToLineStart()
	c.insert(bytes.TrimSuffix(line, []byte{'\n'}))
}

// commit makes the edited line visible to readers. Newline-terminated lines
// are also saved to history.
func (c *Console) commit(newline bool) {
	n := int(c.in.e - c.in.w)
	if newline {
		c.hist.push(c.in.editing())
	}
	c.in.w = c.in.e
	c.readable.Broadcast()

	c.rec.LineCommitted(n)
	c.logger.Debug("Line committed",
		zap.Int("bytes", n),
		zap.Bool("newline", newline),
		zap.Int("history", c.hist.count),
	)
}
