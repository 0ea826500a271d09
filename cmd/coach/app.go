package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/api"
	"github.com/jonathan/career-coach/internal/config"
	"github.com/jonathan/career-coach/internal/jobs"
	"github.com/jonathan/career-coach/internal/leveling"
	"github.com/jonathan/career-coach/internal/logging"
	"github.com/jonathan/career-coach/internal/observability"
	"github.com/jonathan/career-coach/internal/onboarding"
	"github.com/jonathan/career-coach/internal/progress"
	"github.com/jonathan/career-coach/internal/rewards"
	"github.com/jonathan/career-coach/internal/session"
	"github.com/jonathan/career-coach/internal/store"
)

// app wires the core components for one CLI invocation.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	store   *store.Store
	client  *api.Client
	session *session.Manager
	printer *observability.Printer
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Defaults()
	if flagConfig != "" {
		loaded, err := config.LoadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	st, err := store.Open(cfg.CachePath)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.BaseURL, time.Duration(cfg.RequestTimeout)*time.Second, log)

	sess := session.NewManager(client, st, log)
	if err := sess.Load(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		store:   st,
		client:  client,
		session: sess,
		printer: observability.NewPrinter(os.Stdout),
	}, nil
}

func (a *app) Close() {
	_ = a.log.Sync()
	_ = a.store.Close()
}

// identity returns the resolved identity or a friendly login hint.
func (a *app) identity() (string, error) {
	id, err := a.session.Current()
	if err != nil {
		return "", fmt.Errorf("not logged in (run 'coach login' first): %w", err)
	}
	return id, nil
}

func (a *app) wizard(ctx context.Context, identity string) (*onboarding.Wizard, error) {
	w := onboarding.NewWizard(a.store, a.client, a.log, identity)
	if err := w.Load(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

func (a *app) engine(identity string) *leveling.Engine {
	return leveling.NewEngine(a.store, a.client, a.log, identity)
}

func (a *app) aggregator() *progress.Aggregator {
	return progress.NewAggregator(a.client, a.log)
}

func (a *app) evaluator(identity string) *rewards.Evaluator {
	return rewards.NewEvaluator(a.store, a.engine(identity), a.log)
}

func (a *app) poller() *jobs.Poller {
	return jobs.NewPoller(a.client, a.log, jobs.Options{
		AnalysisInterval:       a.cfg.PollInterval(false),
		ResumeInterval:         a.cfg.PollInterval(true),
		Timeout:                time.Duration(a.cfg.PollTimeoutMinutes) * time.Minute,
		MaxConsecutiveFailures: a.cfg.MaxPollFailures,
	})
}
