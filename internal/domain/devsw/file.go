package devsw

import (
	"context"
	"io"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/vm"
)

// File is an open device bound to a process's memory. Transfers are staged
// through the process's user arena at offset 0, so a single Read or Write
// moves at most the arena size.
type File struct {
	ctx   context.Context
	dev   Device
	mem   *vm.Memory
	major int
}

// Open returns a file over the device registered for major. Blocking reads
// on the file are abandoned when ctx is done.
func (t *Table) Open(ctx context.Context, major int, mem *vm.Memory) (*File, error) {
	dev, err := t.Lookup(major)
	if err != nil {
		return nil, err
	}
	return &File{ctx: ctx, dev: dev, mem: mem, major: major}, nil
}

// Major returns the device major number.
func (f *File) Major() int { return f.major }

// Read reads from the device. A zero-length device read is reported as io.EOF.
func (f *File) Read(p []byte) (int, error) {
	n := min(len(p), f.mem.Size(vm.UserSpace))
	if n == 0 {
		return 0, nil
	}
	got, err := f.dev.Read(f.ctx, f.mem, vm.UserSpace, 0, n)
	if err != nil {
		return 0, err
	}
	if got == 0 {
		return 0, io.EOF
	}
	if err := f.mem.Load(vm.UserSpace, 0, p[:got]); err != nil {
		return 0, err
	}
	return got, nil
}

// Write writes p to the device, chunked by the arena size.
func (f *File) Write(p []byte) (int, error) {
	size := f.mem.Size(vm.UserSpace)
	written := 0
	for written < len(p) {
		chunk := p[written:min(len(p), written+size)]
		if err := f.mem.Store(vm.UserSpace, 0, chunk); err != nil {
			return written, err
		}
		n, err := f.dev.Write(f.ctx, f.mem, vm.UserSpace, 0, len(chunk))
		written += n
		if err != nil {
			return written, err
		}
		if n < len(chunk) {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}
