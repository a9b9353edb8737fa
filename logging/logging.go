package logging

import (
	"sync"

	"github.com/phuslu/log"
)

var (
	mu     sync.Mutex
	logger = log.Logger{
		Level:      log.InfoLevel,
		TimeFormat: "15:04:05",
		Writer:     &log.ConsoleWriter{ColorOutput: true},
	}
)

// Setup configures the process logger. When logFilePath is non-empty, output
// goes to that file instead of the console. Debug mode lowers the level so
// per-image diagnostics are recorded.
func Setup(logFilePath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if debug {
		logger.Level = log.DebugLevel
	} else {
		logger.Level = log.InfoLevel
	}

	if logFilePath != "" {
		logger.Writer = &log.FileWriter{
			Filename:   logFilePath,
			MaxSize:    50 << 20,
			MaxBackups: 2,
		}
		logger.Info().Str("logfile", logFilePath).Msg("pairs3d log started")
	}
	return nil
}

// DebugLog logs a message visible only in debug mode.
func DebugLog(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}

// LogInfo logs an information message.
func LogInfo(format string, args ...interface{}) {
	logger.Info().Msgf(format, args...)
}

// LogWarning logs a warning message.
func LogWarning(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}

// LogError logs an error message.
func LogError(format string, args ...interface{}) {
	logger.Error().Msgf(format, args...)
}

// LogImageProcessed records the outcome of handling one image file.
func LogImageProcessed(path string, success bool, errMsg string) {
	if success {
		logger.Debug().Str("path", path).Msg("processed")
	} else {
		logger.Debug().Str("path", path).Str("error", errMsg).Msg("failed")
	}
}
