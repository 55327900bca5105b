// Package shell is the init program run on the console.
//
// It reads one line per console read and understands a handful of
// builtins:
//
//	echo ARGS...   print ARGS
//	ps             list processes
//	kill PID       kill a process
//	cat            copy console lines to the console until ^D
//	exit           leave the shell
//
// ^D at the prompt also exits.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/console"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/devsw"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/proc"
)

// Prompt is printed before each command.
const Prompt = "$ "

// Shell runs commands read from the console device.
type Shell struct {
	devs   *devsw.Table
	procs  *proc.Table
	logger *zap.Logger
}

// New returns a shell using the console registered in devs.
func New(devs *devsw.Table, procs *proc.Table, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{devs: devs, procs: procs, logger: logger.Named("sh")}
}

// Main is the shell's process body.
func (s *Shell) Main(ctx context.Context, p *proc.Proc) error {
	f, err := s.devs.Open(ctx, devsw.Console, p.Mem)
	if err != nil {
		return fmt.Errorf("sh: open console: %w", err)
	}

	buf := make([]byte, console.InputSize)
	for {
		if _, err := io.WriteString(f, Prompt); err != nil {
			return err
		}
		n, err := f.Read(buf)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		args := strings.Fields(string(buf[:n]))
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			return nil
		}
		if err := s.run(ctx, f, args); err != nil {
			s.logger.Debug("Command failed", zap.Strings("args", args), zap.Error(err))
			fmt.Fprintf(f, "sh: %s: %v\n", args[0], err)
		}
	}
}

func (s *Shell) run(ctx context.Context, f io.Writer, args []string) error {
	switch args[0] {
	case "echo":
		_, err := fmt.Fprintln(f, strings.Join(args[1:], " "))
		return err
	case "ps":
		for _, info := range s.procs.List() {
			if _, err := fmt.Fprintf(f, "%d %s %s\n", info.PID, info.State, info.Name); err != nil {
				return err
			}
		}
		return nil
	case "kill":
		if len(args) != 2 {
			return errors.New("usage: kill PID")
		}
		pid, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad pid %q", args[1])
		}
		return s.procs.Kill(pid)
	case "cat":
		child, err := s.procs.Spawn(ctx, "cat", s.cat)
		if err != nil {
			return err
		}
		err = s.procs.Wait(ctx, child.PID)
		if errors.Is(err, console.ErrInterrupted) {
			return nil
		}
		return err
	default:
		return errors.New("unknown command")
	}
}

// cat copies console lines back to the console until end of file.
func (s *Shell) cat(ctx context.Context, p *proc.Proc) error {
	f, err := s.devs.Open(ctx, devsw.Console, p.Mem)
	if err != nil {
		return err
	}
	_, err = io.CopyBuffer(f, f, make([]byte, console.InputSize))
	return err
}
