package cli

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// configureLogging sends progress logs to w so that stdout carries only
// the report.
func configureLogging(w io.Writer, verbose, quiet bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
