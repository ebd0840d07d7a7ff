package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Binaries set it once via InitLogger.
var Logger *logrus.Logger

// InitLogger builds the process logger. An empty level falls back to LOG_LEVEL,
// then to debug (development) or info.
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	// Lambda always gets JSON so CloudWatch can index fields.
	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	log.SetOutput(os.Stdout)

	Logger = log
	return log
}

// GetLogger returns the global logger, initialising a default one if needed.
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithComponent tags entries with the pipeline stage that produced them.
func WithComponent(name string) *logrus.Entry {
	return GetLogger().WithField("component", name)
}

func WithSeason(component, season string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": component,
		"season":    season,
	})
}

// WithRun attaches a publish/run identifier.
func WithRun(component, runID string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": component,
		"run_id":    runID,
	})
}

// IsLambda reports whether the process runs inside AWS Lambda.
func IsLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}
