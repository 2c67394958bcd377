package main

import (
	"io"
	"log/slog"

	"weft/internal/config"
	"weft/internal/dock"
	"weft/internal/logging"
)

// loadConfig reads the config file, creating it with defaults on first run.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if err := config.EnsureExists(); err != nil {
		return config.Default(), nil
	}
	return config.Load(), nil
}

// openLog returns the interactive logger. It falls back to a no-op logger
// when the log file cannot be opened.
func openLog(cfg *config.Config, path string) (*slog.Logger, io.Closer) {
	if path == "" {
		path = logging.DefaultPath()
	}
	logger, closer, err := logging.NewFile(path, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return logging.NewNop(), io.NopCloser(nil)
	}
	return logger, closer
}

// newDockMachine builds the docking machine from config.
func newDockMachine(cfg *config.Config, logger *slog.Logger) *dock.Machine {
	return dock.NewMachine(
		dock.NewLayers(cfg.Dock.BaseLayer),
		dock.WithLogger(logger),
		dock.WithMargin(cfg.Dock.MarginPx),
		dock.WithFocusLayer(cfg.Dock.FocusLayer),
	)
}
