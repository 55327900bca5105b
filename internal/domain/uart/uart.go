// Package uart emulates the serial line under the console.
//
// Output fans out to every attached sink: the host terminal, a pty, or a
// websocket client. Each sink is fed through its own queue, so a sink that
// stops reading loses output instead of stalling the line. PutcSync queues
// immediately and is used for echo and kernel diagnostics. Putc is the buffered path used by console writes; it is
// paced to the configured baud rate so a flood of output behaves like a real
// 16550 draining its FIFO.
//
// Input arrives through Serve, which delivers each received byte to the
// console's interrupt handler.
package uart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FIFODepth is the transmit FIFO depth, used as the pacing burst.
const FIFODepth = 16

// SinkQueue is how many pending writes each sink may hold. Output for a sink
// whose queue is full is dropped, as on a line nobody is listening to.
const SinkQueue = 4096

// ErrNotReady is returned by Putc before Init.
var ErrNotReady = errors.New("uart not initialized")

// UART is an emulated serial line.
type UART struct {
	mu    sync.Mutex
	sinks map[int]*sink
	next  int

	baud    int
	limiter *rate.Limiter
	ready   atomic.Bool
	dropped atomic.Uint64
	logger  *zap.Logger
}

// chunk is one queued write, or a flush marker when flushed is set.
type chunk struct {
	p       []byte
	flushed chan struct{}
}

// sink is an attached writer drained by its own goroutine, so a writer that
// blocks only ever stalls itself.
type sink struct {
	w     io.Writer
	queue chan chunk
	quit  chan struct{}

	overflowing bool // guarded by UART.mu
}

// Option configures a UART.
type Option func(*UART)

// WithBaud paces buffered output at baud bits per second with 8N1 framing.
// Zero disables pacing.
func WithBaud(baud int) Option {
	return func(u *UART) {
		u.baud = baud
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(u *UART) {
		if logger != nil {
			u.logger = logger.Named("uart")
		}
	}
}

// New returns an unattached UART.
func New(opts ...Option) *UART {
	u := &UART{
		sinks:  make(map[int]*sink),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.baud > 0 {
		u.limiter = rate.NewLimiter(rate.Limit(float64(u.baud)/10), FIFODepth)
	}
	return u
}

// Init marks the line ready for buffered output.
func (u *UART) Init() {
	u.ready.Store(true)
	u.logger.Info("UART initialized", zap.Int("baud", u.baud))
}

// Attach adds a sink for output. The returned function detaches it; output
// still queued for the sink is discarded.
func (u *UART) Attach(w io.Writer) (detach func()) {
	s := &sink{
		w:     w,
		queue: make(chan chunk, SinkQueue),
		quit:  make(chan struct{}),
	}

	u.mu.Lock()
	id := u.next
	u.next++
	u.sinks[id] = s
	u.mu.Unlock()

	go u.drain(id, s)

	return func() { u.remove(id, s) }
}

func (u *UART) remove(id int, s *sink) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.sinks[id] == s {
		delete(u.sinks, id)
		close(s.quit)
	}
}

func (u *UART) drain(id int, s *sink) {
	for {
		select {
		case <-s.quit:
			return
		case c := <-s.queue:
			if c.flushed != nil {
				close(c.flushed)
				continue
			}
			if _, err := s.w.Write(c.p); err != nil {
				u.logger.Warn("Detaching failed sink", zap.Int("sink", id), zap.Error(err))
				u.remove(id, s)
				return
			}
		}
	}
}

// Sinks returns the number of attached sinks.
func (u *UART) Sinks() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.sinks)
}

// Dropped returns the number of writes discarded because a sink fell behind.
func (u *UART) Dropped() uint64 {
	return u.dropped.Load()
}

// Flush waits until every sink has written all output queued before the
// call. Sinks detached meanwhile are skipped.
func (u *UART) Flush(ctx context.Context) error {
	u.mu.Lock()
	sinks := make([]*sink, 0, len(u.sinks))
	for _, s := range u.sinks {
		sinks = append(sinks, s)
	}
	u.mu.Unlock()

	for _, s := range sinks {
		marker := chunk{flushed: make(chan struct{})}
		select {
		case s.queue <- marker:
		case <-s.quit:
			continue
		case <-ctx.Done():
			return fmt.Errorf("uart flush: %w", ctx.Err())
		}
		select {
		case <-marker.flushed:
		case <-s.quit:
		case <-ctx.Done():
			return fmt.Errorf("uart flush: %w", ctx.Err())
		}
	}
	return nil
}

// PutcSync sends c to every sink without pacing. It never blocks on a
// sink; a sink that fails is detached.
func (u *UART) PutcSync(c byte) {
	u.send([]byte{c})
}

// Putc sends c on the paced path, waiting for transmit capacity.
func (u *UART) Putc(ctx context.Context, c byte) error {
	if !u.ready.Load() {
		return ErrNotReady
	}
	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("uart putc: %w", err)
		}
	}
	u.send([]byte{c})
	return nil
}

// Writer returns an io.Writer over PutcSync.
func (u *UART) Writer() io.Writer {
	return syncWriter{u}
}

type syncWriter struct{ u *UART }

func (w syncWriter) Write(p []byte) (int, error) {
	w.u.send(p)
	return len(p), nil
}

// send queues p for every sink without waiting on any of them.
func (u *UART) send(p []byte) {
	buf := append([]byte(nil), p...)

	u.mu.Lock()
	defer u.mu.Unlock()

	for id, s := range u.sinks {
		select {
		case s.queue <- chunk{p: buf}:
			if s.overflowing {
				s.overflowing = false
				u.logger.Info("Sink caught up", zap.Int("sink", id))
			}
		default:
			u.dropped.Add(1)
			if !s.overflowing {
				s.overflowing = true
				u.logger.Warn("Sink not keeping up, dropping output", zap.Int("sink", id))
			}
		}
	}
}

// Serve reads from r and hands each byte to intr until r reports EOF or ctx
// ends. Cancellation is observed between reads.
func (u *UART) Serve(ctx context.Context, r io.Reader, intr func(byte)) error {
	buf := make([]byte, FIFODepth)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		for _, c := range buf[:n] {
			intr(c)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("uart receive: %w", err)
		}
	}
}
