package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/ticketchat"
	"github.com/aretw0/ticketchat/internal/config"
	"github.com/aretw0/ticketchat/pkg/adapters/file"
	"github.com/aretw0/ticketchat/pkg/adapters/gemini"
	"github.com/aretw0/ticketchat/pkg/adapters/jira"
	"github.com/aretw0/ticketchat/pkg/adapters/memory"
	"github.com/aretw0/ticketchat/pkg/adapters/redis"
	"github.com/aretw0/ticketchat/pkg/observability"
	"github.com/aretw0/ticketchat/pkg/persistence/middleware"
	"github.com/aretw0/ticketchat/pkg/ports"
	"github.com/aretw0/ticketchat/pkg/session"
	"github.com/aretw0/ticketchat/pkg/tickets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
)

// App is a fully wired engine plus the resources it owns.
type App struct {
	Engine   *ticketchat.Engine
	Sessions *session.Manager
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	closers []io.Closer
}

// Build wires collaborators from cfg.
//
// Tickets come from the fixtures file when one is configured, otherwise from Jira.
// The chat model is Gemini when an API key is set; offline runs fall back to a
// canned model. A Redis URL puts the status cache in front of the ticket source
// and, with the redis session backend, holds named conversations too.
func Build(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &App{
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = observability.NewMetrics(app.Registry)

	model, err := buildModel(cfg, logger)
	if err != nil {
		return nil, err
	}
	summarizer := tickets.NewSummarizer(model, logger)

	source, err := buildSource(cfg, summarizer, logger)
	if err != nil {
		return nil, err
	}

	var client *goredis.Client
	if cfg.Redis.URL != "" {
		redisOpts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client = goredis.NewClient(redisOpts)
		app.closers = append(app.closers, client)

		source = redis.NewFromClient(client, source,
			redis.WithTTL(cfg.Redis.TTL),
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithLogger(logger),
		)
		logger.Debug("status cache enabled", "ttl", cfg.Redis.TTL)
	}

	app.Sessions, err = buildSessions(cfg, client, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	hooks := observability.Chain(observability.LogHooks(logger), app.Metrics.Hooks())
	app.Engine = ticketchat.New(
		ticketchat.WithTicketSource(source),
		ticketchat.WithLanguageModel(model),
		ticketchat.WithLogger(logger),
		ticketchat.WithLifecycleHooks(hooks),
	)
	return app, nil
}

func buildModel(cfg *config.Config, logger *slog.Logger) (ports.LanguageModel, error) {
	if cfg.Model.APIKey == "" {
		logger.Debug("no model API key, using offline model")
		return memory.StaticModel{}, nil
	}

	opts := []gemini.Option{
		gemini.WithModel(cfg.Model.Name),
		gemini.WithSampling(gemini.Sampling{
			Temperature: cfg.Model.Temperature,
			TopP:        cfg.Model.TopP,
			TopK:        cfg.Model.TopK,
		}),
		gemini.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}),
		gemini.WithLogger(logger),
	}
	if cfg.Model.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(cfg.Model.BaseURL))
	}
	client, err := gemini.New(cfg.Model.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing model: %w", err)
	}
	return client, nil
}

func buildSource(cfg *config.Config, summarizer *tickets.Summarizer, logger *slog.Logger) (ports.TicketSource, error) {
	if cfg.Offline() {
		src, err := memory.LoadFixtures(cfg.Fixtures, memory.WithSummarizer(summarizer))
		if err != nil {
			return nil, err
		}
		logger.Debug("using fixtures", "path", cfg.Fixtures)
		return src, nil
	}

	src, err := jira.New(
		jira.Config{BaseURL: cfg.Jira.BaseURL, Username: cfg.Jira.Username, Token: cfg.Jira.Token},
		jira.WithPageSize(cfg.Jira.PageSize),
		jira.WithMaxTickets(cfg.Jira.MaxTickets),
		jira.WithTimeout(cfg.Jira.Timeout),
		jira.WithSummarizer(summarizer),
		jira.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing jira: %w", err)
	}
	return src, nil
}

func buildSessions(cfg *config.Config, client *goredis.Client, logger *slog.Logger) (*session.Manager, error) {
	sc := cfg.Sessions
	var (
		store    ports.ConversationStore
		sessOpts = []session.Option{session.WithLogger(logger)}
	)
	switch sc.Backend {
	case config.BackendMemory:
		store = memory.NewStore()
	case config.BackendRedis:
		store = redis.NewStore(client,
			redis.WithSessionPrefix(cfg.Redis.Prefix+"session:"),
			redis.WithSessionTTL(sc.TTL),
		)
		sessOpts = append(sessOpts, session.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix)))
	default:
		store = file.New(sc.Dir)
	}

	// Redaction runs before sealing so the mask is what gets encrypted.
	var mws []middleware.Middleware
	if sc.Redact {
		mw, err := middleware.NewRedactionMiddleware(middleware.DefaultRedactionPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	key, err := sc.Key()
	if err != nil {
		return nil, err
	}
	if key != nil {
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}

	logger.Debug("sessions enabled", "backend", sc.Backend, "redact", sc.Redact, "encrypted", key != nil)
	return session.NewManager(middleware.Wrap(store, mws...), sessOpts...), nil
}

// Close releases every resource opened by Build.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
