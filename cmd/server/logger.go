package main

import (
	"go.uber.org/zap"

	"github.com/silvertone-audio/duplexvoice/pkg/voice"
)

// zapLogger adapts a zap.SugaredLogger to voice.Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger(sugar *zap.SugaredLogger) voice.Logger {
	return &zapLogger{sugar: sugar}
}

func (l *zapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugw(msg, args...) }
func (l *zapLogger) Info(msg string, args ...interface{})  { l.sugar.Infow(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnw(msg, args...) }
func (l *zapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorw(msg, args...) }

func (l *zapLogger) With(args ...interface{}) voice.Logger {
	return &zapLogger{sugar: l.sugar.With(args...)}
}
