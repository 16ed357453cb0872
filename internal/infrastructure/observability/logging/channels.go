// Package logging provides structured logging channels for landingkit
// components, one slog logger per channel with runtime-adjustable levels.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	// System channels
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelShutdown Channel = "shutdown" // Application shutdown and cleanup

	// Editing channels
	ChannelEditor  Channel = "editor"  // Record commands and replacements
	ChannelPreview Channel = "preview" // Rendering surfaces and preview renders
	ChannelExport  Channel = "export"  // Artifact generation
	ChannelMedia   Channel = "media"   // Image intake
	ChannelSession Channel = "session" // Session lifecycle and cleanup

	// Performance channel
	ChannelPerf Channel = "performance"
)

// AllChannels lists every channel created by NewChanneledLogger
var AllChannels = []Channel{
	ChannelSystem, ChannelStartup, ChannelShutdown,
	ChannelEditor, ChannelPreview, ChannelExport, ChannelMedia, ChannelSession,
	ChannelPerf,
}

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	mu       sync.RWMutex
	channels map[Channel]*slog.Logger
	files    []*os.File
	config   *LoggerConfig
}

// LoggerConfig contains configuration options for the channeled logger
type LoggerConfig struct {
	OutputToFile    bool   `json:"outputToFile"`
	OutputToConsole bool   `json:"outputToConsole"`
	LogDirectory    string `json:"logDirectory"`

	JSONFormat    bool `json:"jsonFormat"`
	IncludeSource bool `json:"includeSource"`

	DefaultLevel  slog.Level             `json:"defaultLevel"`
	ChannelLevels map[Channel]slog.Level `json:"channelLevels"`

	// Extra receives a copy of every record when set. Tests use it to
	// capture output.
	Extra io.Writer `json:"-"`
}

// DefaultLoggerConfig returns console JSON logging at INFO
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		OutputToConsole: true,
		LogDirectory:    "logs",
		JSONFormat:      true,
		DefaultLevel:    slog.LevelInfo,
		ChannelLevels:   make(map[Channel]slog.Level),
	}
}

// ParseLevel maps a level name to a slog level, defaulting to INFO
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE", "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "FATAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewChanneledLogger creates a new channeled logger with the given configuration
func NewChanneledLogger(config *LoggerConfig) (*ChanneledLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.ChannelLevels == nil {
		config.ChannelLevels = make(map[Channel]slog.Level)
	}

	logger := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger),
		config:   config,
	}

	if config.OutputToFile {
		if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	for _, channel := range AllChannels {
		channelLogger, err := logger.createChannelLogger(channel, true)
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("failed to create logger for channel %s: %w", channel, err)
		}
		logger.channels[channel] = channelLogger
	}

	return logger, nil
}

// NewDiscardLogger returns a logger that drops everything. Used by tests and
// by the CLI when it has nothing to say.
func NewDiscardLogger() *ChanneledLogger {
	logger, _ := NewChanneledLogger(&LoggerConfig{DefaultLevel: slog.LevelError})
	return logger
}

// createChannelLogger builds a slog.Logger for a channel. The caller must
// hold mu when the logger is already shared.
func (cl *ChanneledLogger) createChannelLogger(channel Channel, openFile bool) (*slog.Logger, error) {
	level := cl.config.DefaultLevel
	if channelLevel, exists := cl.config.ChannelLevels[channel]; exists {
		level = channelLevel
	}

	var writers []io.Writer
	if cl.config.OutputToConsole {
		writers = append(writers, os.Stdout)
	}
	if cl.config.OutputToFile {
		path := filepath.Join(cl.config.LogDirectory, fmt.Sprintf("%s.log", channel))
		if openFile {
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
			}
			cl.files = append(cl.files, file)
			writers = append(writers, file)
		} else if file := cl.fileFor(path); file != nil {
			writers = append(writers, file)
		}
	}
	if cl.config.Extra != nil {
		writers = append(writers, cl.config.Extra)
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cl.config.IncludeSource,
	}

	var handler slog.Handler
	if cl.config.JSONFormat {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	return slog.New(handler).With(slog.String("channel", string(channel))), nil
}

func (cl *ChanneledLogger) fileFor(path string) *os.File {
	for _, f := range cl.files {
		if f.Name() == path {
			return f
		}
	}
	return nil
}

func (cl *ChanneledLogger) System() *slog.Logger   { return cl.GetChannel(ChannelSystem) }
func (cl *ChanneledLogger) Startup() *slog.Logger  { return cl.GetChannel(ChannelStartup) }
func (cl *ChanneledLogger) Shutdown() *slog.Logger { return cl.GetChannel(ChannelShutdown) }
func (cl *ChanneledLogger) Editor() *slog.Logger   { return cl.GetChannel(ChannelEditor) }
func (cl *ChanneledLogger) Preview() *slog.Logger  { return cl.GetChannel(ChannelPreview) }
func (cl *ChanneledLogger) Export() *slog.Logger   { return cl.GetChannel(ChannelExport) }
func (cl *ChanneledLogger) Media() *slog.Logger    { return cl.GetChannel(ChannelMedia) }
func (cl *ChanneledLogger) Session() *slog.Logger  { return cl.GetChannel(ChannelSession) }
func (cl *ChanneledLogger) Perf() *slog.Logger     { return cl.GetChannel(ChannelPerf) }

// GetChannel returns a logger for a specific channel
func (cl *ChanneledLogger) GetChannel(channel Channel) *slog.Logger {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	if logger, exists := cl.channels[channel]; exists {
		return logger
	}
	return cl.channels[ChannelSystem]
}

// WithSession returns a channel logger carrying the session id
func (cl *ChanneledLogger) WithSession(channel Channel, sessionID string) *slog.Logger {
	return cl.GetChannel(channel).With(slog.String("sessionId", sessionID))
}

// LogStartupPhase logs application startup phases
func (cl *ChanneledLogger) LogStartupPhase(phase string, duration time.Duration, success bool) {
	logger := cl.Startup().With(
		slog.String("phase", phase),
		slog.Duration("duration", duration),
		slog.Bool("success", success),
	)
	if success {
		logger.Info("Startup phase completed")
	} else {
		logger.Error("Startup phase failed")
	}
}

// LogError logs an error with operation and session context
func (cl *ChanneledLogger) LogError(channel Channel, operation string, err error, sessionID string) {
	cl.GetChannel(channel).Error("Operation failed",
		slog.String("operation", operation),
		slog.String("sessionId", sessionID),
		slog.String("error", err.Error()),
	)
}

// SetChannelLevel dynamically sets the log level for a specific channel
func (cl *ChanneledLogger) SetChannelLevel(channel Channel, level slog.Level) error {
	cl.mu.Lock()
	if _, exists := cl.channels[channel]; !exists {
		cl.mu.Unlock()
		return fmt.Errorf("channel %s does not exist", channel)
	}

	cl.config.ChannelLevels[channel] = level
	newLogger, err := cl.createChannelLogger(channel, false)
	if err != nil {
		cl.mu.Unlock()
		return fmt.Errorf("failed to recreate logger for channel %s: %w", channel, err)
	}
	cl.channels[channel] = newLogger
	cl.mu.Unlock()

	cl.System().Info("Channel log level updated dynamically",
		slog.String("channel", string(channel)),
		slog.String("level", level.String()),
	)
	return nil
}

// GetChannelLevels returns the current log levels for all channels
func (cl *ChanneledLogger) GetChannelLevels() map[string]string {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	levels := make(map[string]string, len(cl.channels))
	for channel := range cl.channels {
		if level, ok := cl.config.ChannelLevels[channel]; ok {
			levels[string(channel)] = level.String()
		} else {
			levels[string(channel)] = cl.config.DefaultLevel.String()
		}
	}
	return levels
}

// Close closes any open log files
func (cl *ChanneledLogger) Close() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	var firstErr error
	for _, f := range cl.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	cl.files = nil
	return firstErr
}
