package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/devsw"
)

// ErrInterrupted is returned by Read when the reader's context ends while it
// waits for input.
var ErrInterrupted = errors.New("console read interrupted")

// Transport is the serial line under the console.
type Transport interface {
	// Init prepares the line for use.
	Init()
	// PutcSync sends c immediately. It is used for echo and must not call
	// back into the console.
	PutcSync(c byte)
	// Putc sends c on the buffered path used by Write.
	Putc(ctx context.Context, c byte) error
}

// Dumper prints a diagnostic process listing. It runs with the console lock
// held and must not read from or write to the console.
type Dumper interface {
	Dump()
}

// Recorder receives console activity counts.
type Recorder interface {
	LineCommitted(bytes int)
	HistoryRecalled(direction string)
	ReadCompleted(bytes int)
	ReadInterrupted()
	BytesWritten(bytes int)
}

// Console is a console line discipline over a transport.
type Console struct {
	mu sync.Mutex
	// readable is signalled whenever w advances or a waiting reader's
	// context ends.
	readable *sync.Cond

	in   inputBuffer
	hist history

	tx     Transport
	dumper Dumper
	rec    Recorder
	logger *zap.Logger
}

// New returns an idle console writing to tx.
func New(tx Transport) *Console {
	c := &Console{
		hist:   newHistory(),
		tx:     tx,
		dumper: nopDumper{},
		rec:    nopRecorder{},
		logger: zap.NewNop(),
	}
	c.readable = sync.NewCond(&c.mu)
	return c
}

// WithLogger sets the logger.
func (c *Console) WithLogger(logger *zap.Logger) *Console {
	if logger != nil {
		c.logger = logger.Named("console")
	}
	return c
}

// WithDumper sets the handler for ^P.
func (c *Console) WithDumper(d Dumper) *Console {
	if d != nil {
		c.dumper = d
	}
	return c
}

// WithRecorder sets the activity recorder.
func (c *Console) WithRecorder(r Recorder) *Console {
	if r != nil {
		c.rec = r
	}
	return c
}

// Init brings up the transport and registers the console as the console
// device in table.
func (c *Console) Init(table *devsw.Table) error {
	c.tx.Init()
	if err := table.Register(devsw.Console, c); err != nil {
		return fmt.Errorf("console init: %w", err)
	}
	c.logger.Info("Console registered", zap.Int("major", devsw.Console))
	return nil
}

// History returns the saved lines, oldest first.
func (c *Console) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.lines()
}

// Pending returns the number of committed bytes not yet read.
func (c *Console) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.in.w - c.in.r)
}

// Editing returns the line being edited.
func (c *Console) Editing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.in.editing())
}

// wakeReaders broadcasts on readable so waiting readers re-check their
// contexts.
func (c *Console) wakeReaders() {
	c.mu.Lock()
	c.readable.Broadcast()
	c.mu.Unlock()
}

type nopDumper struct{}

func (nopDumper) Dump() {}

type nopRecorder struct{}

func (nopRecorder) LineCommitted(int)      {}
func (nopRecorder) HistoryRecalled(string) {}
func (nopRecorder) ReadCompleted(int)      {}
func (nopRecorder) ReadInterrupted()       {}
func (nopRecorder) BytesWritten(int)       {}
