// Package config provides 12-factor configuration management for consoled.
//
// Configuration is loaded from environment variables with sensible defaults.
// An optional TOML file overlays the environment, and CLI flags override both.
//
// Configuration Sections:
//   - Console: serial line pacing and which host endpoints attach to it
//   - Memory: per-process user and kernel arena sizes
//   - Server: HTTP server settings (port, host, enabled)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - CONSOLE_BAUD, CONSOLE_STDIN, CONSOLE_PTY
//   - PROC_USER_MEM, PROC_KERNEL_MEM
//   - PORT, HOST, SERVER_ENABLED
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//
// Example File:
//
//	[console]
//	baud = 115200
//	pty = true
//
//	[logging]
//	level = "debug"
package config
