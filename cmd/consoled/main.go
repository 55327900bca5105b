package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/console"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/devsw"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/proc"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/shell"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/uart"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/infrastructure/hostterm"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/consoled/internal/infrastructure/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "consoled: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML config file")
	port := flag.String("port", "", "HTTP port (overrides config)")
	baud := flag.Int("baud", -1, "Serial line baud rate, 0 for unpaced (overrides config)")
	withPTY := flag.Bool("pty", false, "Also expose the console on a pseudo-terminal")
	noStdin := flag.Bool("no-stdin", false, "Do not attach the console to stdin/stdout")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *baud >= 0 {
		cfg.Console.Baud = *baud
	}
	if *withPTY {
		cfg.Console.PTY = true
	}
	if *noStdin {
		cfg.Console.Stdin = false
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := monitoring.NewMetrics()

	tx := uart.New(uart.WithBaud(cfg.Console.Baud), uart.WithLogger(logger.Logger))
	procs := proc.NewTable(
		proc.WithOutput(tx.Writer()),
		proc.WithMemory(cfg.Memory.UserBytes, cfg.Memory.KernelBytes),
		proc.WithLogger(logger.Logger),
	)
	metrics.RegisterGauge("procs", "Number of processes in the process table", func() float64 {
		return float64(len(procs.List()))
	})

	devs := devsw.NewTable()
	cons := console.New(tx).
		WithLogger(logger.Logger).
		WithRecorder(metrics).
		WithDumper(procs)
	if err := cons.Init(devs); err != nil {
		return fmt.Errorf("init console: %w", err)
	}

	if cfg.Console.Stdin {
		restore, err := attachStdio(ctx, tx, cons, logger)
		if err != nil {
			return err
		}
		defer restore()
	}

	if cfg.Console.PTY {
		p, err := hostterm.OpenPTY()
		if err != nil {
			return err
		}
		defer p.Close()
		defer tx.Attach(p)()
		go serveLine(ctx, tx, p, cons, logger.Component("pty"))
		logger.Info("Console available on pseudo-terminal", zap.String("path", p.Name()))
	}

	sh := shell.New(devs, procs, logger.Logger)
	if _, err := procs.Spawn(ctx, "init", initMain(procs, sh, logger.Component("init"))); err != nil {
		return fmt.Errorf("spawn init: %w", err)
	}

	errChan := make(chan error, 1)
	if cfg.Server.Enabled {
		srv := server.New(cfg, server.Deps{
			Console: cons,
			Procs:   procs,
			Line:    tx,
			Metrics: metrics,
			Logger:  logger.Logger,
		})
		go func() {
			errChan <- srv.Run(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully")
	case err := <-errChan:
		if err != nil {
			return err
		}
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// attachStdio joins the host terminal to the line: keystrokes go to the
// console and line output goes to stdout.
func attachStdio(ctx context.Context, tx *uart.UART, cons *console.Console, logger *logging.Logger) (func(), error) {
	restore := func() error { return nil }
	fd := int(os.Stdin.Fd())
	if hostterm.IsTerminal(fd) {
		r, err := hostterm.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("raw stdin: %w", err)
		}
		restore = r
	}

	detach := tx.Attach(os.Stdout)
	go serveLine(ctx, tx, os.Stdin, cons, logger.Component("stdin"))

	return func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := tx.Flush(flushCtx); err != nil {
			logger.Warn("Console output not flushed", zap.Error(err))
		}
		detach()
		if err := restore(); err != nil {
			logger.Warn("Failed to restore terminal", zap.Error(err))
		}
	}, nil
}

func serveLine(ctx context.Context, tx *uart.UART, r io.Reader, cons *console.Console, logger *zap.Logger) {
	err := tx.Serve(ctx, r, cons.Intr)
	switch {
	case err == nil:
		logger.Info("Input closed")
	case errors.Is(err, context.Canceled):
	default:
		logger.Warn("Input failed", zap.Error(err))
	}
}

// initMain keeps a shell running on the console, restarting it whenever it
// exits.
func initMain(procs *proc.Table, sh *shell.Shell, logger *zap.Logger) proc.Func {
	return func(ctx context.Context, p *proc.Proc) error {
		for {
			child, err := procs.Spawn(ctx, "sh", sh.Main)
			if err != nil {
				return err
			}
			err = procs.Wait(ctx, child.PID)
			if ctx.Err() != nil {
				return context.Cause(ctx)
			}
			logger.Info("Shell exited, restarting", zap.Int("pid", child.PID), zap.Error(err))
		}
	}
}
