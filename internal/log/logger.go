// Package log is fpick's structured logger. It keeps a small, stable API
// (levels, fields, error annotation) on top of logrus.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"fpick/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	debugMu sync.RWMutex
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value attached to a log line
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured log lines
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// Option configures a Logger
type Option func(*settings)

type settings struct {
	out      io.Writer
	json     bool
	filePath string
}

// WithOutput sends log lines to w
func WithOutput(w io.Writer) Option {
	return func(s *settings) { s.out = w }
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(s *settings) { s.json = true }
}

// WithFile tees log lines to the named file in addition to the output
func WithFile(path string) Option {
	return func(s *settings) { s.filePath = path }
}

// NewLogger creates a logger writing to stderr unless configured otherwise
func NewLogger(opts ...Option) *Logger {
	s := &settings{out: os.Stderr}
	for _, opt := range opts {
		opt(s)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)

	l := &Logger{}
	out := s.out
	if s.filePath != "" {
		f, err := os.OpenFile(s.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l.file = f
			out = io.MultiWriter(s.out, f)
		} else {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", s.filePath, err)
		}
	}
	base.SetOutput(out)

	if s.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	} else {
		base.SetFormatter(&textFormatter{})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	prev := logger
	logger = NewLogger(opts...)
	if prev != nil && prev.file != nil {
		prev.file.Close()
	}
}

// Default returns the package-level logger
func Default() *Logger {
	return logger
}

// SetDebug toggles debug output for every logger
func SetDebug(debug bool) {
	debugMu.Lock()
	isDebug = debug
	debugMu.Unlock()
}

func debugEnabled() bool {
	debugMu.RLock()
	defer debugMu.RUnlock()
	return isDebug
}

// With returns a child logger carrying the given fields
func (l *Logger) With(fields ...Field) *Logger {
	if len(fields) == 0 {
		return l
	}
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithError annotates the logger with err and, for application errors,
// its kind and subject.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error())}
	if kind := errors.KindOf(err); kind != errors.Unknown {
		fields = append(fields, F("error_kind", kind.String()))
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	return l.With(fields...)
}

func (l *Logger) log(level logrus.Level, msg string) {
	if level == logrus.DebugLevel && !debugEnabled() {
		return
	}
	entry := l.entry
	if _, file, line, ok := runtime.Caller(2); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

func (l *Logger) Info(msg string)  { l.log(logrus.InfoLevel, msg) }
func (l *Logger) Warn(msg string)  { l.log(logrus.WarnLevel, msg) }
func (l *Logger) Error(msg string) { l.log(logrus.ErrorLevel, msg) }
func (l *Logger) Debug(msg string) { l.log(logrus.DebugLevel, msg) }

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
}

// Package-level helpers write through the default logger.

func Info(msg string)  { logger.log(logrus.InfoLevel, msg) }
func Warn(msg string)  { logger.log(logrus.WarnLevel, msg) }
func Error(msg string) { logger.log(logrus.ErrorLevel, msg) }
func Debug(msg string) { logger.log(logrus.DebugLevel, msg) }

func Infof(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{}) {
	logger.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
}

// LogWithFields returns the default logger carrying fields
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the default logger annotated with err
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with msg
func LogError(err error, msg string) {
	logger.WithError(err).log(logrus.ErrorLevel, msg)
}

// textFormatter renders "[time] LEVEL: message k=v ..." with sorted keys.
type textFormatter struct{}

func (f *textFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s: %s", e.Time.Format("2006-01-02 15:04:05"),
		strings.ToUpper(e.Level.String()), e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
