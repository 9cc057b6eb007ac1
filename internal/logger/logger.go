package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger used across the application.
// format is "text" or "json"; an unknown level falls back to info.
func Setup(level, format string, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	logrus.SetOutput(out)

	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(new(logrus.JSONFormatter))
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// Info logs message at Info level.
func Info(msg string) {
	logrus.Infoln(msg)
}

// Error logs errors at Error level.
func Error(err error) {
	logrus.Errorln(err)
}

// Fatal logs errors at Fatal level and exits.
func Fatal(err error) {
	logrus.Fatalln(err)
}
