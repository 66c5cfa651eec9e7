package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

type LogLevel int

const (
	INFO LogLevel = iota
	WARN
	ERROR
	DEBUG
)

func (l LogLevel) prefix() string {
	switch l {
	case WARN:
		return "WARN:  "
	case ERROR:
		return "ERROR: "
	case DEBUG:
		return "DEBUG: "
	default:
		return "INFO:  "
	}
}

type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	file        *os.File
}

// New opens (or creates) the log file at path in append mode. When console
// is not nil every line is mirrored to it.
func New(path string, console io.Writer) (*Logger, error) {
	if path == "" {
		path = DefaultLogFile
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var out io.Writer = file
	if console != nil {
		out = io.MultiWriter(file, console)
	}

	l := NewWriter(out)
	l.file = file
	return l, nil
}

// NewWriter builds a Logger that writes every level to w.
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		infoLogger:  log.New(w, INFO.prefix(), log.LstdFlags),
		warnLogger:  log.New(w, WARN.prefix(), log.LstdFlags),
		errorLogger: log.New(w, ERROR.prefix(), log.LstdFlags),
		debugLogger: log.New(w, DEBUG.prefix(), log.LstdFlags),
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return NewWriter(io.Discard)
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) Info(v ...any) {
	l.infoLogger.Println(v...)
}

func (l *Logger) Infof(format string, v ...any) {
	l.infoLogger.Printf(format, v...)
}

func (l *Logger) Warn(v ...any) {
	l.warnLogger.Println(v...)
}

func (l *Logger) Warnf(format string, v ...any) {
	l.warnLogger.Printf(format, v...)
}

func (l *Logger) Error(v ...any) {
	l.errorLogger.Println(v...)
}

func (l *Logger) Errorf(format string, v ...any) {
	l.errorLogger.Printf(format, v...)
}

func (l *Logger) Debug(v ...any) {
	l.debugLogger.Println(v...)
}

func (l *Logger) Debugf(format string, v ...any) {
	l.debugLogger.Printf(format, v...)
}
