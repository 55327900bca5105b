package shell

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/console"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/devsw"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/proc"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/uart"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type rig struct {
	cons  *console.Console
	procs *proc.Table
	out   *lockedBuffer
	sh    *proc.Proc
}

func boot(t *testing.T) *rig {
	t.Helper()
	out := &lockedBuffer{}
	tx := uart.New()
	tx.Attach(out)

	procs := proc.NewTable(proc.WithOutput(tx.Writer()))
	devs := devsw.NewTable()
	cons := console.New(tx).WithDumper(procs)
	require.NoError(t, cons.Init(devs))

	sh, err := procs.Spawn(context.Background(), "sh", New(devs, procs, nil).Main)
	require.NoError(t, err)

	r := &rig{cons: cons, procs: procs, out: out, sh: sh}
	r.waitFor(t, Prompt)
	return r
}

func (r *rig) typeLine(s string) {
	for i := 0; i < len(s); i++ {
		r.cons.Intr(s[i])
	}
}

func (r *rig) waitFor(t *testing.T, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(r.out.String(), want)
	}, 2*time.Second, time.Millisecond, "output never contained %q; got %q", want, r.out.String())
}

func (r *rig) waitExit(t *testing.T) error {
	t.Helper()
	select {
	case <-r.sh.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shell did not exit")
	}
	return r.procs.Wait(context.Background(), r.sh.PID)
}

func TestEcho(t *testing.T) {
	r := boot(t)

	r.typeLine("echo hello   world\n")
	r.waitFor(t, "echo hello   world\nhello world\n$ ")
}

func TestUnknownCommand(t *testing.T) {
	r := boot(t)

	r.typeLine("frob\n")
	r.waitFor(t, "sh: frob: unknown command\n")
}

func TestPs(t *testing.T) {
	r := boot(t)

	r.typeLine("ps\n")
	r.waitFor(t, "1 run sh\n")
}

func TestProcDumpKey(t *testing.T) {
	r := boot(t)

	r.cons.Intr(console.ProcDump)
	r.waitFor(t, "\n1 run sh\n")
}

func TestExit(t *testing.T) {
	r := boot(t)

	r.typeLine("exit\n")
	assert.NoError(t, r.waitExit(t))
}

func TestEndOfFileExits(t *testing.T) {
	r := boot(t)

	r.cons.Intr(console.EndOfFile)
	assert.NoError(t, r.waitExit(t))
}

func TestKillUsage(t *testing.T) {
	r := boot(t)

	r.typeLine("kill\n")
	r.waitFor(t, "sh: kill: usage: kill PID\n")
	r.typeLine("kill x\n")
	r.waitFor(t, "sh: kill: bad pid \"x\"\n")
	r.typeLine("kill 99\n")
	r.waitFor(t, "no such process\n")
}

func TestCat(t *testing.T) {
	r := boot(t)

	r.typeLine("cat\n")
	require.Eventually(t, func() bool { return len(r.procs.List()) == 2 }, 2*time.Second, time.Millisecond)

	r.typeLine("meow\n")
	r.waitFor(t, "meow\nmeow\n")

	// ^D is echoed like any other committed byte.
	r.cons.Intr(console.EndOfFile)
	r.waitFor(t, "meow\nmeow\n\x04$ ")
	require.Eventually(t, func() bool { return len(r.procs.List()) == 1 }, 2*time.Second, time.Millisecond)
}

func TestKillBlockedCat(t *testing.T) {
	r := boot(t)

	r.typeLine("cat\n")
	require.Eventually(t, func() bool { return len(r.procs.List()) == 2 }, 2*time.Second, time.Millisecond)

	// cat is PID 2, blocked reading the console.
	require.NoError(t, r.procs.Kill(2))
	r.waitFor(t, "cat\n$ ")

	r.typeLine("echo back\n")
	r.waitFor(t, "back\n")
}
