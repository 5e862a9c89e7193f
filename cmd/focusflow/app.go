package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/focusflow/backend"
	"github.com/lixenwraith/focusflow/config"
	"github.com/lixenwraith/focusflow/history"
	"github.com/lixenwraith/focusflow/kv"
	"github.com/lixenwraith/focusflow/logger"
)

var errOffline = errors.New("backend disabled: unset FOCUSFLOW_OFFLINE and drop --offline")

// app holds what every command needs
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	store    kv.Store
	history  *history.Store
	identity *backend.Identity
	// client is nil when offline
	client *backend.Client
}

func loadApp(ctx context.Context, opts *globalOptions) (*app, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.offline {
		cfg.Offline = true
	}

	if err := rotateLog(cfg.LogFile, maxLogSize); err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, OutputPath: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(ctx, cfg.KV(), log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open local store: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		history:  history.New(store, history.WithLocation(loc), history.WithLogger(log)),
		identity: backend.NewIdentity(store, log),
	}
	if !cfg.Offline {
		a.client = backend.NewClient(cfg.APIURL, cfg.APITimeout, log)
	}
	return a, nil
}

// online returns the backend client or errOffline
func (a *app) online() (*backend.Client, error) {
	if a.client == nil {
		return nil, errOffline
	}
	return a.client, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("local store close failed", zap.Error(err))
	}
	_ = a.log.Sync()
}
