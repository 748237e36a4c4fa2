// Package shared holds setup helpers used by every terrain-mcp command.
package shared

import (
	"log/slog"

	"github.com/terrainlab/terrain-mcp/internal/config"
	"github.com/terrainlab/terrain-mcp/internal/geoproc"
	"github.com/terrainlab/terrain-mcp/internal/log"
)

// Setup loads settings and constructs the logger and connector shared by
// all commands. logLevel, when non-empty, overrides the configured level
// (the --log-level flag wins over file and environment).
func Setup(configPath, logLevel string) (*slog.Logger, *geoproc.Connector, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logCfg := settings.LoggerConfig()
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	logger := log.New(logCfg)

	connector, err := geoproc.New(settings.ConnectorConfig(), log.WithComponent(logger, "geoproc"))
	if err != nil {
		return nil, nil, err
	}

	return logger, connector, nil
}
