package logutils

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogSettings configures the harness logger.
type LogSettings struct {
	// Enabled turns logging on. A disabled logger discards everything.
	Enabled bool `json:"Enabled"`
	// Level is one of "ERROR", "WARN", "INFO" and "DEBUG".
	Level string `json:"Level" validate:"omitempty,eq=ERROR|eq=WARN|eq=INFO|eq=DEBUG"`
	// File receives JSON encoded entries when set, rotated by size.
	File            string `json:"File"`
	MaxSize         int    `json:"MaxSize" validate:"min=0"`
	MaxBackups      int    `json:"MaxBackups" validate:"min=0"`
	CompressRotated bool   `json:"CompressRotated"`
}

// DefaultLogSettings logs INFO and above to the console only.
func DefaultLogSettings() LogSettings {
	return LogSettings{
		Enabled:    true,
		Level:      "INFO",
		MaxSize:    100,
		MaxBackups: 3,
	}
}

// NewLogger builds a zap logger writing human readable entries to stderr
// and, when settings.File is set, JSON entries to a rotated file.
func NewLogger(settings LogSettings) (*zap.Logger, error) {
	return newLogger(settings, os.Stderr)
}

func newLogger(settings LogSettings, console io.Writer) (*zap.Logger, error) {
	if !settings.Enabled {
		return zap.NewNop(), nil
	}

	level := zapcore.InfoLevel
	if settings.Level != "" {
		var err error
		level, err = zapcore.ParseLevel(settings.Level)
		if err != nil {
			return nil, err
		}
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(console),
			level,
		),
	}
	if settings.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			ZapSyncerWithRotation(FileOptions{
				Filename:   settings.File,
				MaxSize:    settings.MaxSize,
				MaxBackups: settings.MaxBackups,
				Compress:   settings.CompressRotated,
			}),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
