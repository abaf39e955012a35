package config

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("CFG")

var (
	stdoutLogFormat = logging.MustStringFormatter(`%{color:reset}%{color}%{time:15:04:05.000} [%{level}] [%{module}] %{message}`)
	fileLogFormat   = logging.MustStringFormatter(`%{time:2006-01-02T15:04:05} [%{level}] [%{module}] %{message}`)
)

// SetupLogging routes every package logger to stdout and, when logDir is set,
// to a rotating file in that directory. Unknown levels fall back to INFO.
func SetupLogging(level, logDir string) {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.INFO
	}

	backendStdout := logging.NewLogBackend(os.Stdout, "", 0)
	backendStdoutFormatter := logging.NewBackendFormatter(backendStdout, stdoutLogFormat)
	leveledStdout := logging.AddModuleLevel(backendStdoutFormatter)
	leveledStdout.SetLevel(lvl, "")

	if logDir == "" {
		logging.SetBackend(leveledStdout)
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "notifications.log"),
		MaxSize:    10, // Megabytes
		MaxBackups: 3,
		MaxAge:     30, // Days
	}
	backendFile := logging.NewLogBackend(rotator, "", 0)
	backendFileFormatter := logging.NewBackendFormatter(backendFile, fileLogFormat)
	leveledFile := logging.AddModuleLevel(backendFileFormatter)
	leveledFile.SetLevel(lvl, "")

	logging.SetBackend(leveledStdout, leveledFile)
}
