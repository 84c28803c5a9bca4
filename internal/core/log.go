package core

import (
	"os"

	"github.com/sirupsen/logrus"
)

func NewLogger(options Log) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(options.Level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)

	if options.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log, nil
}
