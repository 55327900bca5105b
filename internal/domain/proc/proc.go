// Package proc runs kernel tasks as goroutines and keeps the process table
// printed by the console's ^P.
//
// Each process gets a small PID, a ULID, its own address space and a
// cancellable context. Kill cancels the context, which is how a process
// blocked in a console read learns it was killed.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/vm"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/shared/id"
)

// NPROC is the maximum number of live processes.
const NPROC = 64

var (
	// ErrNoProcess is returned for an unknown PID.
	ErrNoProcess = errors.New("no such process")
	// ErrTableFull is returned by Spawn when NPROC processes exist.
	ErrTableFull = errors.New("process table full")
	// ErrKilled is the cancellation cause of a killed process.
	ErrKilled = errors.New("killed")
)

// State is a process scheduling state.
type State int32

const (
	Runnable State = iota
	Running
	Zombie
)

var stateNames = [...]string{
	Runnable: "runble",
	Running:  "run",
	Zombie:   "zombie",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "???"
	}
	return stateNames[s]
}

// Func is the body of a process. Its return value is the exit status.
type Func func(ctx context.Context, p *Proc) error

// Proc is a process.
type Proc struct {
	PID     int
	ID      id.ProcID
	Name    string
	Mem     *vm.Memory
	Started time.Time

	ctx    context.Context
	cancel context.CancelCauseFunc
	state  atomic.Int32
	killed atomic.Bool
	done   chan struct{}
	err    error
}

// Context returns the process context. It ends when the process is killed.
func (p *Proc) Context() context.Context { return p.ctx }

// Killed reports whether the process has been killed.
func (p *Proc) Killed() bool { return p.killed.Load() }

// State returns the current state.
func (p *Proc) State() State { return State(p.state.Load()) }

// Done is closed when the process exits.
func (p *Proc) Done() <-chan struct{} { return p.done }

// Info is a snapshot of a process.
type Info struct {
	PID     int       `json:"pid"`
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	State   string    `json:"state"`
	Killed  bool      `json:"killed"`
	Started time.Time `json:"started"`
}

// Table is the process table.
type Table struct {
	mu      sync.Mutex
	procs   map[int]*Proc
	nextPID int

	out       io.Writer
	userMem   int
	kernelMem int
	logger    *zap.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithOutput sets where Dump prints.
func WithOutput(w io.Writer) Option {
	return func(t *Table) { t.out = w }
}

// WithMemory sets the arena sizes of new processes.
func WithMemory(userBytes, kernelBytes int) Option {
	return func(t *Table) {
		t.userMem = userBytes
		t.kernelMem = kernelBytes
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger.Named("proc")
		}
	}
}

// NewTable returns an empty process table. PIDs start at 1.
func NewTable(opts ...Option) *Table {
	t := &Table{
		procs:   make(map[int]*Proc),
		nextPID: 1,
		out:     io.Discard,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Spawn starts fn as a new process. The process context derives from parent.
func (t *Table) Spawn(parent context.Context, name string, fn Func) (*Proc, error) {
	t.mu.Lock()
	if len(t.procs) >= NPROC {
		t.mu.Unlock()
		return nil, ErrTableFull
	}
	ctx, cancel := context.WithCancelCause(parent)
	p := &Proc{
		PID:     t.nextPID,
		ID:      id.NewProcID(),
		Name:    name,
		Mem:     vm.NewMemory(t.userMem, t.kernelMem),
		Started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	t.nextPID++
	t.procs[p.PID] = p
	t.mu.Unlock()

	t.logger.Debug("Process spawned", zap.Int("pid", p.PID), zap.String("name", name), zap.Stringer("id", p.ID))

	go t.run(p, fn)
	return p, nil
}

func (t *Table) run(p *Proc, fn Func) {
	p.state.Store(int32(Running))
	err := fn(p.ctx, p)
	p.err = err
	p.state.Store(int32(Zombie))
	p.cancel(context.Canceled)
	close(p.done)

	if err != nil {
		t.logger.Debug("Process exited", zap.Int("pid", p.PID), zap.String("name", p.Name), zap.Error(err))
		return
	}
	t.logger.Debug("Process exited", zap.Int("pid", p.PID), zap.String("name", p.Name))
}

// Wait blocks until pid exits, removes it from the table and returns its
// exit status.
func (t *Table) Wait(ctx context.Context, pid int) error {
	p, err := t.lookup(pid)
	if err != nil {
		return err
	}
	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	t.mu.Lock()
	delete(t.procs, pid)
	t.mu.Unlock()
	return p.err
}

// Kill marks pid killed and cancels its context.
func (t *Table) Kill(pid int) error {
	p, err := t.lookup(pid)
	if err != nil {
		return err
	}
	p.killed.Store(true)
	p.cancel(ErrKilled)
	t.logger.Info("Process killed", zap.Int("pid", pid), zap.String("name", p.Name))
	return nil
}

func (t *Table) lookup(pid int) (*Proc, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.procs[pid]
	if !ok {
		return nil, fmt.Errorf("pid %d: %w", pid, ErrNoProcess)
	}
	return p, nil
}

// List returns a snapshot of the table ordered by PID.
func (t *Table) List() []Info {
	t.mu.Lock()
	procs := make([]*Proc, 0, len(t.procs))
	for _, p := range t.procs {
		procs = append(procs, p)
	}
	t.mu.Unlock()

	sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })

	infos := make([]Info, len(procs))
	for i, p := range procs {
		infos[i] = Info{
			PID:     p.PID,
			ID:      p.ID.String(),
			Name:    p.Name,
			State:   p.State().String(),
			Killed:  p.Killed(),
			Started: p.Started,
		}
	}
	return infos
}

// Dump prints the process listing to the table's output, one
// "<pid> <state> <name>" line per process. It is the console's ^P handler.
func (t *Table) Dump() {
	fmt.Fprint(t.out, "\n")
	for _, info := range t.List() {
		fmt.Fprintf(t.out, "%d %s %s\n", info.PID, info.State, info.Name)
	}
}
