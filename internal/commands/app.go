package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/spendsync/internal/cards"
	"github.com/cleared-dev/spendsync/internal/config"
	"github.com/cleared-dev/spendsync/internal/importer"
	"github.com/cleared-dev/spendsync/internal/logging"
	"github.com/cleared-dev/spendsync/internal/pipeline"
	"github.com/cleared-dev/spendsync/internal/preview"
	"github.com/cleared-dev/spendsync/internal/store"
)

// app holds the collaborators a command needs for one workspace.
type app struct {
	root     string
	cfg      *config.Config
	logger   *logrus.Logger
	store    store.Store
	cards    *cards.Service
	pipeline *pipeline.Service
}

// loadConfig reads spendsync.yaml from root, falling back to defaults when
// the file does not exist, and applies environment overrides.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

func openApp(root string) (*app, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	parserCfg, err := cfg.ParserConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cardSvc, err := cards.Load(root)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Storage.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}
	st, err := store.OpenSQLite(dbPath, logger)
	if err != nil {
		return nil, err
	}

	parser := importer.NewStatementParser(parserCfg, logger)
	agg := preview.NewAggregator(cfg.AggregatorConfig())
	return &app{
		root:     root,
		cfg:      cfg,
		logger:   logger,
		store:    st,
		cards:    cardSvc,
		pipeline: pipeline.NewService(parser, st, cardSvc, agg, logger),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
