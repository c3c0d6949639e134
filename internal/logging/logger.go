package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"compass-go/internal/config"
)

// Rotation holds the file-rotation limits for the log files. The zero value
// is replaced with sensible defaults so the logger can start before the
// configuration has been read.
type Rotation struct {
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// RotationFrom maps the logging config section onto rotation limits.
func RotationFrom(cfg config.LoggingConfig) Rotation {
	return Rotation{
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

func (r Rotation) orDefaults() Rotation {
	if r.MaxSize <= 0 {
		r.MaxSize = 10
	}
	if r.MaxBackups <= 0 {
		r.MaxBackups = 3
	}
	if r.MaxAge <= 0 {
		r.MaxAge = 7
	}
	return r
}

// Init initializes and returns a new zap logger writing per-level rotating
// JSON files under logDir plus a readable console stream.
func Init(logDir string, rot Rotation) (*zap.Logger, error) {
	rot = rot.orDefaults()

	// Base encoder configuration for file logs (JSON format)
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	levels := []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
	}

	// One core per level, each writing ONLY that level to its own file, plus
	// a console core. A log entry is sent to every core and each decides via
	// its LevelEnabler whether to write it.
	cores := make([]zapcore.Core, 0, len(levels)+1)
	for _, level := range levels {
		fileCore, err := newFileCore(logDir, level, rot, encoderConfig)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCore)
	}
	cores = append(cores, newConsoleCore())

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger, nil
}

// newFileCore creates a core that writes a specific log level to a rotating file.
func newFileCore(logDir string, level zapcore.Level, rot Rotation, encoderConfig zapcore.EncoderConfig) (zapcore.Core, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	// A log file per level, named like '2025-07-30-info.log'
	fileName := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), level.String()))

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    rot.MaxSize,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAge,
		Compress:   rot.Compress,
	})

	// This LevelEnablerFunc is what splits the logs: the core only handles
	// entries of exactly its own level.
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l == level
	})

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writer,
		levelEnabler,
	), nil
}

// newConsoleCore creates a core that writes to the console.
func newConsoleCore() zapcore.Core {
	// Log everything from Debug and above to the console.
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.DebugLevel
	})

	// Use a more human-readable encoder for the console.
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.AddSync(os.Stdout),
		levelEnabler,
	)
}
