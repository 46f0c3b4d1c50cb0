package logger

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type LogLevel string

const (
	DEBUG   LogLevel = "DEBUG"
	INFO    LogLevel = "INFO"
	WARNING LogLevel = "WARNING"
	ERROR   LogLevel = "ERROR"
)

var levelSeverity = map[LogLevel]int{
	DEBUG:   0,
	INFO:    1,
	WARNING: 2,
	ERROR:   3,
}

// Logger writes leveled, module-scoped log lines. Every module creates its own
// instance so log output can always be traced back to its origin.
type Logger struct {
	mu     sync.Mutex
	target io.Writer
	module string
	level  LogLevel
	ip     string
}

// NewLogger creates a logger for the given module. The ip parameter carries the
// client address for request-scoped loggers and "System" for background components.
func NewLogger(target io.Writer, module string, level LogLevel, ip string) *Logger {
	if _, ok := levelSeverity[level]; !ok {
		level = DEBUG
	}
	return &Logger{
		target: target,
		module: module,
		level:  level,
		ip:     ip,
	}
}

func (l *Logger) write(level LogLevel, format string, args ...any) {
	if levelSeverity[level] < levelSeverity[l.level] {
		return
	}

	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n", time.Now().UTC().Format(time.RFC3339), level, l.module, l.ip, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.target, line)
}

// Printf logs at INFO level.
func (l *Logger) Printf(format string, args ...any) {
	l.write(INFO, format, args...)
}

func (l *Logger) PrintfDebug(format string, args ...any) {
	l.write(DEBUG, format, args...)
}

func (l *Logger) PrintfInfo(format string, args ...any) {
	l.write(INFO, format, args...)
}

func (l *Logger) PrintfWarning(format string, args ...any) {
	l.write(WARNING, format, args...)
}

func (l *Logger) PrintfError(format string, args ...any) {
	l.write(ERROR, format, args...)
}
