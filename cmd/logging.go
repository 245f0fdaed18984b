package cmd

import (
	"os"

	"nontransitive/config"

	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the global logrus logger from config
func SetupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("logLevel", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
