package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	// Usable before InitLogger runs (package tests, early boot).
	InitLogger("info", "text")
}

// InitLogger configures the info (stdout) and error (stderr) loggers.
// level is one of debug, info, warn, error; format is text or json.
func InitLogger(level, format string) {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(os.Stdout)
	ErrorLogger.SetOutput(os.Stderr)

	var formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if strings.EqualFold(format, "json") {
		formatter = &logrus.JSONFormatter{}
	}
	InfoLogger.SetFormatter(formatter)
	ErrorLogger.SetFormatter(formatter)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	InfoLogger.SetLevel(lvl)
	ErrorLogger.SetLevel(logrus.WarnLevel)
}
