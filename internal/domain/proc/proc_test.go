package proc

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/vm"
)

func TestSpawnAndWait(t *testing.T) {
	table := NewTable(WithMemory(64, 32))

	p, err := table.Spawn(context.Background(), "init", func(ctx context.Context, p *Proc) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, p.PID)
	assert.Equal(t, 64, p.Mem.Size(vm.UserSpace))
	assert.Equal(t, 32, p.Mem.Size(vm.KernelSpace))

	require.NoError(t, table.Wait(context.Background(), p.PID))
	assert.Equal(t, Zombie, p.State())
	assert.Empty(t, table.List())

	q, err := table.Spawn(context.Background(), "sh", func(ctx context.Context, p *Proc) error {
		return errors.New("exit 1")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, q.PID)
	assert.EqualError(t, table.Wait(context.Background(), q.PID), "exit 1")
}

func TestKillCancelsContext(t *testing.T) {
	table := NewTable()
	started := make(chan struct{})

	p, err := table.Spawn(context.Background(), "cat", func(ctx context.Context, p *Proc) error {
		close(started)
		<-ctx.Done()
		return context.Cause(ctx)
	})
	require.NoError(t, err)
	<-started

	assert.False(t, p.Killed())
	require.NoError(t, table.Kill(p.PID))
	assert.True(t, p.Killed())

	err = table.Wait(context.Background(), p.PID)
	assert.ErrorIs(t, err, ErrKilled)
}

func TestUnknownPID(t *testing.T) {
	table := NewTable()

	assert.ErrorIs(t, table.Kill(42), ErrNoProcess)
	assert.ErrorIs(t, table.Wait(context.Background(), 42), ErrNoProcess)
}

func TestWaitContext(t *testing.T) {
	table := NewTable()
	release := make(chan struct{})
	p, err := table.Spawn(context.Background(), "sleeper", func(ctx context.Context, p *Proc) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, table.Wait(ctx, p.PID), context.DeadlineExceeded)
	assert.Len(t, table.List(), 1, "an unreaped process stays in the table")

	close(release)
	require.NoError(t, table.Wait(context.Background(), p.PID))
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	table := NewTable(WithOutput(&out))
	release := make(chan struct{})
	defer close(release)

	for _, name := range []string{"init", "sh"} {
		_, err := table.Spawn(context.Background(), name, func(ctx context.Context, p *Proc) error {
			<-release
			return nil
		})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		for _, info := range table.List() {
			if info.State != "run" {
				return false
			}
		}
		return true
	}, time.Second, time.Millisecond)

	table.Dump()
	assert.Equal(t, "\n1 run init\n2 run sh\n", out.String())
}

func TestList(t *testing.T) {
	table := NewTable()
	release := make(chan struct{})
	defer close(release)

	p, err := table.Spawn(context.Background(), "init", func(ctx context.Context, p *Proc) error {
		<-release
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, table.Kill(p.PID))

	infos := table.List()
	require.Len(t, infos, 1)
	assert.Equal(t, 1, infos[0].PID)
	assert.Equal(t, "init", infos[0].Name)
	assert.Equal(t, p.ID.String(), infos[0].ID)
	assert.True(t, infos[0].Killed)
}

func TestTableFull(t *testing.T) {
	table := NewTable()
	release := make(chan struct{})
	defer close(release)

	for i := 0; i < NPROC; i++ {
		_, err := table.Spawn(context.Background(), "worker", func(ctx context.Context, p *Proc) error {
			<-release
			return nil
		})
		require.NoError(t, err)
	}

	_, err := table.Spawn(context.Background(), "one-too-many", func(context.Context, *Proc) error { return nil })
	assert.ErrorIs(t, err, ErrTableFull)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "runble", Runnable.String())
	assert.Equal(t, "run", Running.String())
	assert.Equal(t, "zombie", Zombie.String())
	assert.Equal(t, "???", State(9).String())
}
