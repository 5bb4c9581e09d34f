// Package logger provides a structured logging interface for shutter.
//
// It wraps the zerolog library with:
// - Multiple log levels (Debug, Info, Warn, Error)
// - Structured logging with fields
// - Coloured console output on stderr
// - Optional file output alongside the console
// - A global logger instance for the command-line tool
//
// Library packages accept a Logger and treat nil as "discard everything"
// (see OrNop), so profile acquisition stays silent unless the caller opts
// in.
//
// Basic Usage:
//
//	err := logger.Initialize(&config.LoggingConfig{Level: "debug"})
//
//	logger.GetLogger().WithError(err).Error("Download failed")
//
//	log := logger.GetLogger().WithField("component", "downloader")
//	log.DebugWithFields("Worker started", map[string]interface{}{
//	    "worker_id": 1,
//	})
package logger
