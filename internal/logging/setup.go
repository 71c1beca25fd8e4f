// Copyright (c) 2025 Forcedlogin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// VerboseEnv forces debug logging when set to "1".
const VerboseEnv = "FORCEDLOGIN_VERBOSE"

// maskingFormatter runs every formatted entry through Mask before it is written.
type maskingFormatter struct {
	next logrus.Formatter
}

func (f *maskingFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b, err := f.next.Format(entry)
	if err != nil {
		return nil, err
	}
	return []byte(Mask(string(b))), nil
}

// Setup configures the standard logrus logger for the CLI.
// Logs go to w (stderr when nil) so they never mix with command output.
func Setup(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logrus.SetOutput(w)
	logrus.SetFormatter(&maskingFormatter{next: &logrus.TextFormatter{
		DisableTimestamp: true,
	}})
	logrus.SetLevel(ParseLevel(level))
	if os.Getenv(VerboseEnv) == "1" {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// ParseLevel converts a config string into a logrus level, defaulting to warn.
func ParseLevel(level string) logrus.Level {
	l, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.WarnLevel
	}
	return l
}
