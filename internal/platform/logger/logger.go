// Package logger provides the process-wide leveled logger backing the
// engine's ports.Logger dependency.
package logger

import (
	"log"
	"os"
)

type Logger struct {
	info *log.Logger
	warn *log.Logger
	err  *log.Logger
}

func New() *Logger {
	return &Logger{
		info: log.New(os.Stdout, "[INFO] ", log.Ldate|log.Ltime),
		warn: log.New(os.Stdout, "[WARN] ", log.Ldate|log.Ltime),
		err:  log.New(os.Stderr, "[ERROR] ", log.Ldate|log.Ltime),
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.info.Printf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.warn.Printf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.err.Printf(format, args...)
}
