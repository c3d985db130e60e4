package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const applicationLoggerName = "ctxpack"

// NewApplicationLogger returns a console logger writing to stderr so that it never
// mixes with tree output or JSON progress on stdout. verbose enables debug entries.
func NewApplicationLogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zapcore.EncoderConfig{
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if !verbose {
		encoderConfig.NameKey = ""
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "console",
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named(applicationLoggerName), nil
}
