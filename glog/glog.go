// Package glog holds the leveled loggers shared by the command-line
// tools. Levels map to verbosity flags: 1 errors only, 2 adds warnings,
// 3 adds info (the default), 4 adds trace, 5 adds debug.
package glog

import (
	"io"
	"log"
	"os"
)

var (
	Trace   *log.Logger
	Debug   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

func init() {
	InitLog(3)
}

// InitLog wires the package loggers for the given verbosity. Silenced
// levels write to io.Discard so call sites never need a level check.
func InitLog(loglevel int) {
	switch loglevel {
	case 1:
		Init(io.Discard, io.Discard, os.Stderr, io.Discard, io.Discard)
	case 2:
		Init(io.Discard, os.Stderr, os.Stderr, io.Discard, io.Discard)
	case 4:
		Init(os.Stdout, os.Stderr, os.Stderr, os.Stdout, io.Discard)
	case 5:
		Init(os.Stdout, os.Stderr, os.Stderr, os.Stdout, os.Stdout)
	default:
		Init(os.Stdout, os.Stderr, os.Stderr, io.Discard, io.Discard)
	}
}

// Init installs the loggers on explicit writers; tests use it to capture
// output.
func Init(infoHandle, warningHandle, errorHandle, traceHandle, debugHandle io.Writer) {
	flags := log.Ldate | log.Ltime | log.Lshortfile

	Trace = log.New(traceHandle, "TRACE: ", flags)
	Debug = log.New(debugHandle, "DEBUG: ", flags)
	Info = log.New(infoHandle, "INFO: ", flags)
	Warning = log.New(warningHandle, "WARNING: ", flags)
	Error = log.New(errorHandle, "ERROR: ", flags)
}
