package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the narrow logging surface handed to every pipeline stage.
type Logger struct {
	l *logrus.Logger
}

type Field struct {
	Key string
	Val any
}

func New(jsonEnabled bool) *Logger {
	return NewWithWriter(os.Stderr, jsonEnabled)
}

func NewWithWriter(w io.Writer, jsonEnabled bool) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	lg := &Logger{l: l}
	lg.SetJSON(jsonEnabled)
	return lg
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, false)
}

func (lg *Logger) SetJSON(enabled bool) {
	if enabled {
		lg.l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
			},
		})
		return
	}
	lg.l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
}

// SetLevel accepts logrus level names; unknown names leave the level unchanged.
func (lg *Logger) SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	lg.l.SetLevel(lvl)
	return nil
}

func (lg *Logger) Debug(msg string, fields ...Field) {
	lg.entry(fields).Debug(msg)
}

func (lg *Logger) Info(msg string, fields ...Field) {
	lg.entry(fields).Info(msg)
}

func (lg *Logger) Warn(msg string, fields ...Field) {
	lg.entry(fields).Warn(msg)
}

func (lg *Logger) Error(msg string, fields ...Field) {
	lg.entry(fields).Error(msg)
}

func (lg *Logger) entry(fields []Field) *logrus.Entry {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		if err, ok := f.Val.(error); ok {
			data[f.Key] = err.Error()
			continue
		}
		data[f.Key] = f.Val
	}
	return lg.l.WithFields(data)
}
