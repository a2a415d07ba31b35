package utils

import (
	"log"
	"os"
)

// Logger is the process-wide logging facade. Handlers and stores take it by
// pointer so tests can pass nil and stay silent.
type Logger struct {
	std *log.Logger
	err *log.Logger
}

func NewLogger() *Logger {
	flags := log.LstdFlags | log.LUTC
	return &Logger{
		std: log.New(os.Stdout, "", flags),
		err: log.New(os.Stderr, "ERROR ", flags),
	}
}

func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.std == nil {
		return
	}
	l.std.Printf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil || l.err == nil {
		return
	}
	l.err.Printf(format, args...)
}
