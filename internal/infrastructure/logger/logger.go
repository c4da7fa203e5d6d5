package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*zap.SugaredLogger
}

type Options struct {
	Level string
	// File enables a rotating JSON log next to the console output.
	File string
	// Console defaults to os.Stderr so command output on stdout stays clean.
	Console io.Writer
}

func New(opts Options) (*Logger, error) {
	if opts.File != "" {
		logDir := filepath.Dir(opts.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleConfig := zap.NewProductionEncoderConfig()
	consoleConfig.TimeKey = "timestamp"
	consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleConfig.CallerKey = zapcore.OmitKey
	if _, ok := console.(*os.File); !ok {
		consoleConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	fileConfig := zap.NewProductionEncoderConfig()
	fileConfig.TimeKey = "timestamp"
	fileConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	fileConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(console), level)

	core := consoleCore
	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
		core = zapcore.NewTee(
			consoleCore,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), fileWriter, level),
		)
	}

	zapLogger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{zapLogger.Sugar()}, nil
}

func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

func (l *Logger) Close() {
	_ = l.Sync()
}
