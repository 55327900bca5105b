// Package logging builds the daemon's zap logger.
//
// Production output is JSON tagged with service=consoled; development output
// is colored text. Both go to stderr unless configured otherwise, since
// standard output belongs to the console line when consoled runs attached to
// a terminal.
//
//	logger, err := logging.New(logging.Config{Level: "info"})
//	tx := uart.New(uart.WithLogger(logger.Component("uart")))
//	logger.Info("Console ready", zap.String("pty", name))
package logging
