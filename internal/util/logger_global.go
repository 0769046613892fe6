package util

import (
	"context"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger LoggerInterface
)

// InitLogger installs the global logger. With neither a file nor console
// output the logger discards everything.
func InitLogger(logLevel, logFile string, debugToConsole bool) error {
	l, err := NewLogger(LoggerConfig{Level: logLevel, File: logFile, Console: debugToConsole})
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// SetLogger replaces the global logger and closes the old one.
func SetLogger(l LoggerInterface) {
	globalMu.Lock()
	old := globalLogger
	globalLogger = l
	globalMu.Unlock()
	if old != nil && old != l {
		_ = old.Close()
	}
}

func current() LoggerInterface {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Log returns the global logger, or a discarding one.
func Log() LoggerInterface {
	if l := current(); l != nil {
		return l
	}
	return &Logger{sink: &sink{}, fields: map[string]any{}}
}

// LogCtx returns the global logger annotated with ctx's request and view IDs.
func LogCtx(ctx context.Context) LoggerInterface {
	return Log().WithContext(ctx)
}

func LogInfo(msg string) {
	if l := current(); l != nil {
		l.Info(msg)
	}
}

func LogInfof(format string, args ...any) {
	if l := current(); l != nil {
		l.Infof(format, args...)
	}
}

func LogDebug(msg string) {
	if l := current(); l != nil {
		l.Debug(msg)
	}
}

func LogDebugf(format string, args ...any) {
	if l := current(); l != nil {
		l.Debugf(format, args...)
	}
}

func LogWarn(msg string) {
	if l := current(); l != nil {
		l.Warn(msg)
	}
}

func LogWarnf(format string, args ...any) {
	if l := current(); l != nil {
		l.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if l := current(); l != nil {
		l.Error(msg)
	}
}

func LogErrorf(format string, args ...any) {
	if l := current(); l != nil {
		l.Errorf(format, args...)
	}
}
