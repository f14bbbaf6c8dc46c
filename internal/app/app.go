// Package app wires configuration, logging and the export pipeline for the
// command line and desktop binaries.
package app

import (
	"offer-export/internal/config"
	"offer-export/internal/db"
	"offer-export/internal/export"
	"offer-export/internal/logger"
	"offer-export/internal/runmeta"
	"offer-export/internal/secrets"
	"offer-export/internal/xlsx"
)

type App struct {
	Config config.Config
	Log    logger.LoggerService
}

// Load resolves the configuration and opens the log file. A log file that
// cannot be opened falls back to stderr. Keyring problems are logged and
// leave the password as configured.
func Load() (*App, error) {
	bootstrapLog := logger.NewStderr()

	cfg, err := config.Resolve(config.ResolveOptions{})
	if err != nil {
		bootstrapLog.Error("failed to load config", err)
		return nil, err
	}

	logSvc, err := logger.New(cfg)
	if err != nil {
		bootstrapLog.Error("logger init failed; using stderr", err)
		logSvc = bootstrapLog
	}

	if err := secrets.ApplyDBPassword(&cfg.DB); err != nil {
		logSvc.Error("keyring lookup failed", err)
	}

	return &App{Config: cfg, Log: logSvc}, nil
}

func (a *App) Runner() *export.Runner {
	return &export.Runner{
		QueryFile:  a.Config.Export.QueryFile,
		OutputFile: a.Config.Export.OutputFile,
		Source:     db.NewSQLSource(a.Config.DB, db.DefaultOptions()),
		Writer: xlsx.Writer{Options: xlsx.Options{
			SheetName:   a.Config.Export.SheetName,
			HeaderColor: xlsx.DefaultHeaderColor,
		}},
		Log: a.Log,
	}
}

func (a *App) MetadataStore() (runmeta.Store, error) {
	if p := a.Config.Export.MetadataFile; p != "" {
		return runmeta.NewFileStore(p), nil
	}
	return runmeta.DefaultFileStore()
}

func (a *App) Close() error {
	if a == nil || a.Log == nil {
		return nil
	}
	return a.Log.Close()
}

func (a *App) Interactive() (*export.Interactive, error) {
	store, err := a.MetadataStore()
	if err != nil {
		return nil, err
	}
	return export.NewInteractive(a.Runner(), store, nil), nil
}
