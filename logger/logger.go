// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

var base *zap.Logger

// ------------------- logger initialization -------------------

// InitLogger creates or reinitializes the logging system. It:
// - Builds a zap core writing to the given writer (stdout when nil).
// - Uses JSON encoding when format is "json", console encoding otherwise.
// - Exposes each level as a standard *log.Logger so call sites keep Printf/Println.
func InitLogger(w io.Writer, level, format string) error {
	if w == nil {
		w = os.Stdout
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encCfg.ConsoleSeparator = " | "
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	lvl := parseLevel(level)
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	zl := zap.New(core, zap.AddCaller())

	info, err := zap.NewStdLogAt(zl, zapcore.InfoLevel)
	if err != nil {
		return err
	}
	warn, err := zap.NewStdLogAt(zl, zapcore.WarnLevel)
	if err != nil {
		return err
	}
	errLog, err := zap.NewStdLogAt(zl, zapcore.ErrorLevel)
	if err != nil {
		return err
	}
	debug, err := zap.NewStdLogAt(zl, zapcore.DebugLevel)
	if err != nil {
		return err
	}

	base = zl
	Info, Warn, Error, Debug = info, warn, errLog, debug
	return nil
}

// L returns the sugared logger behind the level loggers.
func L() *zap.SugaredLogger {
	return base.Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

// SetLogLevel adjusts the Debug logger’s output depending on environment.
// In production debug output is discarded entirely.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "INFO":
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// init is called automatically at package load time so the loggers are usable
// before configuration is read. main reinitializes them once config is loaded.
func init() {
	if err := InitLogger(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")); err != nil {
		log.Fatalf("Failed to initialise custom logger: %v", err)
	}
}
