package main

import (
	"fmt"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tstl-lang/tstl/internal/config"
)

// setupRunLogger creates a rotating file logger for the protocol trace
func setupRunLogger(logPath string) (*lumberjack.Logger, func(string, ...interface{})) {
	logF := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    config.GetInt("log-max-size"),
		MaxBackups: config.GetInt("log-max-backups"),
		MaxAge:     config.GetInt("log-max-age"),
		Compress:   config.GetBool("log-compress"),
	}

	trace := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		_, _ = fmt.Fprintf(logF, "[%s] %s\n", timestamp, msg)
	}

	return logF, trace
}
