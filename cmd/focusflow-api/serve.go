package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/focusflow/config"
	"github.com/lixenwraith/focusflow/logger"
	"github.com/lixenwraith/focusflow/server"
	"github.com/lixenwraith/focusflow/service"
)

type serveOptions struct {
	envFile  string
	addr     string
	logLevel string
}

func serve(ctx context.Context, opts serveOptions) error {
	cfg, err := config.LoadServer(opts.envFile)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, OutputPath: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	g, gctx := errgroup.WithContext(ctx)
	hub := service.NewHub(log)
	b := &backend{cfg: cfg, log: log, group: g, metrics: server.NewMetrics()}
	for _, svc := range b.services() {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}

	if err := hub.InitAll(gctx); err != nil {
		return err
	}
	if err := hub.StartAll(gctx); err != nil {
		_ = hub.StopAll(context.WithoutCancel(ctx))
		return err
	}
	order, _ := hub.Order()
	log.Info("API listening",
		zap.String("addr", cfg.Addr),
		zap.String("db", cfg.DBPath),
		zap.String("report_model", cfg.ReportModel()),
		zap.Strings("startup_order", order))

	g.Go(func() error {
		<-gctx.Done()
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("Shutting down")
		return hub.StopAll(stopCtx)
	})
	return g.Wait()
}

// backend owns the runtime pieces shared between its services
type backend struct {
	cfg     *config.ServerConfig
	log     *zap.Logger
	group   *errgroup.Group
	metrics *server.Metrics

	store   *server.Store
	worker  *server.ReportWorker
	workers chan struct{}
	http    *http.Server
}

func (b *backend) services() []service.Service {
	return []service.Service{
		&service.Func{
			ID: "store",
			OnInit: func(ctx context.Context) error {
				st, err := server.OpenStore(ctx, b.cfg.DBPath)
				if err != nil {
					return err
				}
				b.store = st
				return nil
			},
			OnStop: func(context.Context) error { return b.store.Close() },
		},
		&service.Func{
			ID:     "reports",
			Deps:   []string{"store"},
			OnInit: b.initReports,
			OnStart: func(ctx context.Context) error {
				b.workers = make(chan struct{})
				b.group.Go(func() error {
					defer close(b.workers)
					return b.worker.Run(ctx)
				})
				return nil
			},
			OnStop: func(ctx context.Context) error {
				if b.workers == nil {
					return nil
				}
				select {
				case <-b.workers:
					return nil
				case <-ctx.Done():
					return fmt.Errorf("report workers: %w", ctx.Err())
				}
			},
		},
		&service.Func{
			ID:   "http",
			Deps: []string{"store", "reports"},
			OnInit: func(context.Context) error {
				api := server.New(server.Config{
					Store:       b.store,
					Reports:     b.worker,
					Metrics:     b.metrics,
					CORSOrigins: b.cfg.CORSOrigins,
					Logger:      b.log,
				})
				b.http = api.HTTPServer(b.cfg.Addr)
				return nil
			},
			OnStart: func(context.Context) error {
				b.group.Go(func() error {
					if err := b.http.ListenAndServe(); err != nil && !server.IsClosed(err) {
						return fmt.Errorf("listen %s: %w", b.cfg.Addr, err)
					}
					return nil
				})
				return nil
			},
			OnStop: func(ctx context.Context) error { return b.http.Shutdown(ctx) },
		},
	}
}

// initReports picks the OpenAI generator when a key is configured, rule-based output stays as fallback
func (b *backend) initReports(context.Context) error {
	var gen, fallback server.Generator = server.RuleBasedGenerator{}, nil
	if b.cfg.OpenAIKey != "" {
		gen = server.NewOpenAIGenerator(b.cfg.OpenAIKey, b.cfg.OpenAIModel, b.cfg.OpenAIBaseURL, b.log)
		fallback = server.RuleBasedGenerator{}
	}
	b.worker = server.NewReportWorker(server.WorkerConfig{
		Store:     b.store,
		Generator: gen,
		Fallback:  fallback,
		Metrics:   b.metrics,
		Workers:   b.cfg.ReportWorkers,
		Queue:     b.cfg.ReportQueue,
		Logger:    b.log,
	})
	return nil
}
