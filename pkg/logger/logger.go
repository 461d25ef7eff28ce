package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"ttscraper/pkg/config"
)

// Logger defines the interface for logging operations.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	DebugWithFields(msg string, fields map[string]interface{})
	InfoWithFields(msg string, fields map[string]interface{})
	WarnWithFields(msg string, fields map[string]interface{})
	ErrorWithFields(msg string, fields map[string]interface{})

	// GetZerolog returns the underlying zerolog instance for advanced usage.
	GetZerolog() *zerolog.Logger
}

// zerologLogger implements the Logger interface using zerolog.
type zerologLogger struct {
	logger *zerolog.Logger
	fields map[string]interface{}
}

// New creates a new Logger instance based on the provided configuration.
// All log output goes to stderr: stdout is reserved for the JSON result
// records, so logs and progress must stay on the other stream.
func New(cfg *config.LoggingConfig) (Logger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	if cfg.File != "" {
		fileOutput, err := setupFileOutput(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to setup file output: %w", err)
		}
		output = zerolog.MultiLevelWriter(output, fileOutput)
	}

	zlog := zerolog.New(output).With().
		Timestamp().
		Str("app", "ttscraper").
		Logger()

	return &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}, nil
}

// setupFileOutput creates a file writer for logging.
func setupFileOutput(cfg *config.LoggingConfig) (io.Writer, error) {
	dir := filepath.Dir(cfg.File)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// parseLogLevel converts string log level to zerolog.Level.
func parseLogLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "fatal":
		return zerolog.FatalLevel, nil
	case "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

func (l *zerologLogger) Debug(msg string) {
	l.addFields(l.logger.Debug()).Msg(msg)
}

func (l *zerologLogger) Info(msg string) {
	l.addFields(l.logger.Info()).Msg(msg)
}

func (l *zerologLogger) Warn(msg string) {
	l.addFields(l.logger.Warn()).Msg(msg)
}

func (l *zerologLogger) Error(msg string) {
	l.addFields(l.logger.Error()).Msg(msg)
}

func (l *zerologLogger) Fatal(msg string) {
	l.addFields(l.logger.Fatal()).Msg(msg)
}

// WithField returns a logger carrying one extra field.
func (l *zerologLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger carrying extra fields.
func (l *zerologLogger) WithFields(fields map[string]interface{}) Logger {
	newLogger := &zerologLogger{
		logger: l.logger,
		fields: make(map[string]interface{}, len(l.fields)+len(fields)),
	}
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

// WithError adds an error field to the logger.
func (l *zerologLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *zerologLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.addFieldsFromMap(l.logger.Debug(), fields).Msg(msg)
}

func (l *zerologLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.addFieldsFromMap(l.logger.Info(), fields).Msg(msg)
}

func (l *zerologLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.addFieldsFromMap(l.logger.Warn(), fields).Msg(msg)
}

func (l *zerologLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.addFieldsFromMap(l.logger.Error(), fields).Msg(msg)
}

// GetZerolog returns the underlying zerolog instance.
func (l *zerologLogger) GetZerolog() *zerolog.Logger {
	return l.logger
}

func (l *zerologLogger) addFields(event *zerolog.Event) *zerolog.Event {
	for key, value := range l.fields {
		event = addFieldToEvent(event, key, value)
	}
	return event
}

func (l *zerologLogger) addFieldsFromMap(event *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	event = l.addFields(event)
	for key, value := range fields {
		event = addFieldToEvent(event, key, value)
	}
	return event
}

// addFieldToEvent adds a single field to a zerolog event with type checking.
func addFieldToEvent(event *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return event.Str(key, v)
	case int:
		return event.Int(key, v)
	case int64:
		return event.Int64(key, v)
	case float64:
		return event.Float64(key, v)
	case bool:
		return event.Bool(key, v)
	case time.Duration:
		return event.Dur(key, v)
	case error:
		return event.Err(v)
	case []string:
		return event.Strs(key, v)
	default:
		return event.Interface(key, v)
	}
}

// Global logger instance
var globalLogger Logger

// Initialize sets up the global logger.
func Initialize(cfg *config.LoggingConfig) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	globalLogger = logger

	// Also set the global zerolog logger
	log.Logger = *logger.GetZerolog()

	return nil
}

// GetLogger returns the global logger instance.
func GetLogger() Logger {
	if globalLogger == nil {
		cfg := &config.LoggingConfig{Level: "info"}
		globalLogger, _ = New(cfg)
	}
	return globalLogger
}

// Convenience functions for the global logger

func Debug(msg string) { GetLogger().Debug(msg) }
func Info(msg string)  { GetLogger().Info(msg) }
func Warn(msg string)  { GetLogger().Warn(msg) }
func Error(msg string) { GetLogger().Error(msg) }
func Fatal(msg string) { GetLogger().Fatal(msg) }

// WithField adds a field to the global logger.
func WithField(key string, value interface{}) Logger {
	return GetLogger().WithField(key, value)
}

// WithFields adds multiple fields to the global logger.
func WithFields(fields map[string]interface{}) Logger {
	return GetLogger().WithFields(fields)
}

// WithError adds an error to the global logger.
func WithError(err error) Logger {
	return GetLogger().WithError(err)
}
