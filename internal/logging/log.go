// Package logging configures the logrus logger shared by the server and the
// command. Output goes to stderr because stdout carries the MCP protocol.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CallIDKey is the field that ties the log lines of one tool call together.
const CallIDKey = "call_id"

type Fields = logrus.Fields

// Options selects the level and destinations of the log.
type Options struct {
	// Level is a logrus level name; empty means info.
	Level string

	// File, when set, receives a copy of every line and is rotated by size.
	File string

	// NoColors disables ANSI colours, for terminals and files that show them
	// as escapes.
	NoColors bool
}

// New builds a logger writing to stderr and, if opts.File is set, to a
// rotating file.
func New(opts Options) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		var err error
		level, err = logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	writers := []io.Writer{os.Stderr}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	return build(level, io.MultiWriter(writers...), opts.NoColors || opts.File != ""), nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	return build(logrus.PanicLevel, io.Discard, true)
}

func build(level logrus.Level, out io.Writer, noColors bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(out)
	logger.SetReportCaller(true)
	logger.SetFormatter(&formatter.Formatter{
		NoColors:        noColors,
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			if noColors {
				return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
			}
			return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, funcName)
		},
	})
	return logger
}
