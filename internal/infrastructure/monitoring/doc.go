/*
Package monitoring provides Prometheus metrics for consoled.

# Overview

Metrics live in a private registry rather than the global default one, so
several daemons (or tests) can coexist in one process.

# Features

- HTTP request metrics (latency, throughput)
- Console line discipline counters (commits, recalls, reads, writes)
- WebSocket terminal metrics
- Go runtime and uptime metrics

# Usage

	metrics := monitoring.NewMetrics()

	// Feed console activity
	cons := console.New(tx).WithRecorder(metrics)

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
