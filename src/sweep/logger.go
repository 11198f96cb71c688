package sweep

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents severity.
type LogLevel = logrus.Level

const (
	LevelDebug = logrus.DebugLevel
	LevelInfo  = logrus.InfoLevel
	LevelWarn  = logrus.WarnLevel
	LevelError = logrus.ErrorLevel
)

var baseLogger = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(LevelInfo)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05.000000",
		DisableQuote:    true,
	})
	return l
}

// SetLogLevel parses and sets the global log level. Unknown names leave the level unchanged.
func SetLogLevel(s string) {
	l, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return
	}
	baseLogger.SetLevel(l)
}

// GetLogLevel returns the current global log level.
func GetLogLevel() LogLevel { return baseLogger.GetLevel() }

// SetLogOutput redirects diagnostics (stderr by default).
func SetLogOutput(w io.Writer) { baseLogger.SetOutput(w) }

func logf(l LogLevel, format string, args ...interface{}) {
	if !baseLogger.IsLevelEnabled(l) {
		return
	}
	// Only format when there are args; a pre-formatted message may carry literal '%'.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	baseLogger.Log(l, msg)
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// Timing helper for phases.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
