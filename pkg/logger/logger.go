package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Leveled logger shared by the notes service and its tools.
// Debug/Info/Warn/Error/Fatal variants on top of a package-level logrus instance.

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Options controls output format and destination. Zero value logs text to stdout.
type Options struct {
	JSON bool
	// File enables size-based rotation through lumberjack when set.
	File        string
	AlsoStdout  bool
	MaxSizeMB   int
	MaxBackups  int
	CompressOld bool
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	log.SetLevel(parseLevel(l))
}

// Configure applies output options on top of the current level.
func Configure(opts Options) {
	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.File == "" {
		log.SetOutput(os.Stdout)
		return
	}
	if !strings.HasSuffix(opts.File, ".log") {
		opts.File += ".log"
	}
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 50
	}
	rotating := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: opts.MaxBackups,
		Compress:   opts.CompressOld,
	}
	if opts.AlsoStdout {
		log.SetOutput(io.MultiWriter(os.Stdout, rotating))
		return
	}
	log.SetOutput(rotating)
}

// SetOutput redirects log output; used by tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func parseLevel(l string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// WithFields returns an entry carrying structured fields, e.g. the request id.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return log.WithFields(logrus.Fields(fields))
}

func Debugf(format string, v ...interface{}) { log.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { log.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { log.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { log.Errorf(format, v...) }
func Fatalf(format string, v ...interface{}) { log.Fatalf(format, v...) }

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) { log.Infoln(v...) }

func Debug(v string) { log.Debug(v) }
func Info(v string)  { log.Info(v) }
func Warn(v string)  { log.Warn(v) }
func Error(v string) { log.Error(v) }

// LevelString returns the current level as text.
func LevelString() string {
	switch log.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "debug"
	case logrus.WarnLevel:
		return "warn"
	case logrus.ErrorLevel:
		return "error"
	case logrus.FatalLevel, logrus.PanicLevel:
		return "fatal"
	}
	return "info"
}
