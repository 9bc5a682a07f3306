package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const serviceName = "newsroom"

var logger = log.New()

func init() {
	layout := "2006-01-02"
	env := os.Getenv("ENV")
	formatTime := time.Now().Format(layout)
	// Stdout by default; LOG_TO_FILE=true writes to logs/<date><env>.log instead.
	logger.Out = os.Stdout
	if os.Getenv("LOG_TO_FILE") == "true" {
		cwd, err := os.Getwd()
		if err != nil {
			log.Warnf("Failed get current working directory: %v, falling back to stdout", err)
		} else {
			logsDir := filepath.Join(cwd, "logs")
			if mkErr := os.MkdirAll(logsDir, 0o755); mkErr != nil {
				log.Warnf("Failed to create logs directory %s: %v, falling back to stdout", logsDir, mkErr)
			} else {
				filePath := filepath.Join(logsDir, fmt.Sprintf("%s%s.log", formatTime, env))
				f, openErr := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
				if openErr != nil {
					log.Warnf("Failed to open log file %s: %v, falling back to stdout", filePath, openErr)
				} else {
					logger.Out = f
				}
			}
		}
	}

	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	logger.SetLevel(log.DebugLevel)
}

// SetLevel applies the configured level; unknown values keep the current one.
func SetLevel(level string) {
	if level == "" {
		return
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		logger.WithField("level", level).Warn("Unknown log level, keeping current")
		return
	}
	logger.SetLevel(lvl)
}

func GetLogger() *log.Entry {
	function, file, line, _ := runtime.Caller(1)

	functionObject := runtime.FuncForPC(function)
	entry := logger.WithFields(log.Fields{
		"service":  serviceName,
		"function": functionObject.Name(),
		"file":     file,
		"line":     line,
	})

	return entry
}
