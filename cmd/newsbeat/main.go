package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newsbeat/pkg/cache"
	"github.com/umputun/newsbeat/pkg/config"
	"github.com/umputun/newsbeat/pkg/content"
	"github.com/umputun/newsbeat/pkg/domain"
	"github.com/umputun/newsbeat/pkg/feed"
	"github.com/umputun/newsbeat/pkg/image"
	"github.com/umputun/newsbeat/pkg/ingest"
	"github.com/umputun/newsbeat/pkg/llm"
	"github.com/umputun/newsbeat/pkg/repository"
	"github.com/umputun/newsbeat/pkg/scheduler"
	"github.com/umputun/newsbeat/pkg/service"
	"github.com/umputun/newsbeat/server"
)

// Opts with all CLI options. Non-zero values override the config file.
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"config file (yaml)"`

	DatabaseURL string `long:"db" env:"DATABASE_URL" description:"database dsn, sqlite file or postgres url"`
	OpenAIKey   string `long:"openai-key" env:"OPENAI_API_KEY" description:"openai api key"`
	OpenAIModel string `long:"openai-model" env:"OPENAI_MODEL" description:"openai model"`
	RedisURL    string `long:"redis" env:"REDIS_URL" description:"redis url for cache invalidation"`
	Listen      string `short:"l" long:"listen" env:"LISTEN" description:"status server listen address (run command)"`

	RetentionDays     int `long:"retention-days" env:"RETENTION_DAYS" description:"delete articles older than this"`
	ShardCount        int `long:"shard-count" env:"SHARD_COUNT" description:"number of shards"`
	ShardIndex        int `long:"shard-index" env:"SHARD_INDEX" description:"shard processed by this invocation"`
	MaxSources        int `long:"max-sources" env:"MAX_SOURCES" description:"max sources per batch"`
	MaxItemsPerSource int `long:"max-items" env:"MAX_ITEMS_PER_SOURCE" description:"max items taken from one feed"`
	Workers           int `long:"workers" env:"INGEST_WORKERS" description:"sources processed concurrently"`

	AIBackfillLimit       int   `long:"ai-limit" env:"AI_BACKFILL_LIMIT" description:"articles per ai backfill pass"`
	AIBackfillDelayMS     int   `long:"ai-delay-ms" env:"AI_BACKFILL_DELAY_MS" description:"pause between ai backfill calls, ms"`
	ImageBackfillLimit    int   `long:"image-limit" env:"IMAGE_BACKFILL_LIMIT" description:"articles per image backfill pass"`
	ImageBackfillDays     int   `long:"image-days" env:"IMAGE_BACKFILL_DAYS" description:"image backfill looks back this many days"`
	ImageBackfillDelayMS  int   `long:"image-delay-ms" env:"IMAGE_BACKFILL_DELAY_MS" description:"pause between scraped pages, ms"`
	ImageBackfillSourceID int64 `long:"image-source" env:"IMAGE_BACKFILL_SOURCE_ID" description:"restrict image backfill to one source"`

	Ingest         struct{} `command:"ingest" description:"run one ingestion batch (default)"`
	BackfillAI     struct{} `command:"backfill-ai" description:"summarise articles missing ai fields"`
	BackfillImages struct{} `command:"backfill-images" description:"scrape images for recent articles without one"`
	Daemon         struct{} `command:"run" description:"periodic ingestion with status server"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

const (
	cmdIngest         = "ingest"
	cmdBackfillAI     = "backfill-ai"
	cmdBackfillImages = "backfill-images"
	cmdRun            = "run"
)

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	command := cmdIngest
	if parser.Active != nil {
		command = parser.Active.Name
	}

	setupLog(opts.Debug, opts.NoColor, opts.secrets()...)
	log.Printf("[INFO] starting newsbeat %s, version %s", command, revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, command)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %s failed: %v", command, err)
		os.Exit(1)
	}

	log.Printf("[INFO] %s completed", command)
}

// run loads config, wires all components and executes the command
func run(ctx context.Context, opts Opts, command string) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.apply(cfg)
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	setupLog(opts.Debug, opts.NoColor, configSecrets(cfg)...)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if cerr := repos.Close(); cerr != nil {
			log.Printf("[WARN] failed to close database: %v", cerr)
		}
	}()

	svc := service.NewIngestService(repos)
	if err = svc.SeedSources(ctx, cfg.Sources); err != nil {
		return fmt.Errorf("failed to seed sources: %w", err)
	}

	c, err := newComponents(cfg, svc)
	if err != nil {
		return err
	}
	defer c.close()

	switch command {
	case cmdIngest:
		_, err = c.ingester.Run(ctx)
		return err
	case cmdBackfillAI:
		_, err = c.backfiller.BackfillAI(ctx)
		return err
	case cmdBackfillImages:
		_, err = c.backfiller.BackfillImages(ctx)
		return err
	case cmdRun:
		return runDaemon(ctx, cfg, repos, c, opts.Debug)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// runDaemon runs scheduled ingestion and the status server until ctx is canceled
func runDaemon(ctx context.Context, cfg *config.Config, repos *repository.Repositories, c *components, dbg bool) error {
	params := scheduler.Params{
		Runner:           c.ingester,
		UpdateInterval:   cfg.Ingest.Interval,
		BackfillInterval: cfg.Backfill.AIInterval,
	}
	if c.enabledAI {
		params.Backfiller = c.backfiller
	}
	sched := scheduler.NewScheduler(params)
	sched.Start(ctx)
	defer sched.Stop()

	srvParams := server.Params{Config: cfg, DB: repos, Scheduler: sched, Version: revision, Debug: dbg}
	if c.redis != nil {
		srvParams.Cache = c.redis
	}
	return server.New(srvParams).Run(ctx)
}

// components built once from config and injected into ingester and backfiller
type components struct {
	ingester   *ingest.Ingester
	backfiller *ingest.Backfiller
	redis      *cache.Redis
	enabledAI  bool
}

func newComponents(cfg *config.Config, svc *service.IngestService) (*components, error) {
	res := &components{}
	userAgent := cfg.Feed.UserAgent
	if userAgent == "" {
		userAgent = feed.DefaultUserAgent
	}

	resolver := image.NewResolver(image.Config{
		Timeout:     cfg.Image.Timeout,
		UserAgent:   userAgent,
		ScrapeHosts: cfg.Image.ScrapeHosts,
		ScrapeDelay: cfg.Image.ScrapeDelay,
	})

	ingestCfg := ingest.Config{
		Store:  svc,
		Parser: feed.NewParser(cfg.Feed.Timeout, userAgent),
		Images: resolver,
		Filter: domain.SourceFilter{
			ShardCount: cfg.Ingest.ShardCount,
			ShardIndex: cfg.Ingest.ShardIndex,
			Limit:      cfg.Ingest.MaxSources,
		},
		MaxItemsPerSource: cfg.Ingest.MaxItemsPerSource,
		Workers:           cfg.Ingest.Workers,
		Retention:         cfg.Retention(),
	}
	backfillCfg := ingest.BackfillConfig{
		Store:         svc,
		Scraper:       resolver,
		AILimit:       cfg.Backfill.AILimit,
		AIDelay:       cfg.Backfill.AIDelay,
		ImageLimit:    cfg.Backfill.ImageLimit,
		ImageDays:     cfg.Backfill.ImageDays,
		ImageDelay:    cfg.Backfill.ImageDelay,
		ImageSourceID: cfg.Backfill.ImageSourceID,
	}

	// optional dependencies are assigned only when enabled, nil interfaces switch them off
	if cfg.LLM.Enabled() {
		summarizer := llm.NewSummarizer(cfg.LLM)
		ingestCfg.Enricher = summarizer
		backfillCfg.Enricher = summarizer
		res.enabledAI = true
		log.Printf("[INFO] ai enrichment enabled, model %s", cfg.LLM.Model)
	} else {
		log.Printf("[INFO] ai enrichment disabled, no api key")
	}

	if cfg.Extraction.Enabled {
		ingestCfg.Extractor = content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent, cfg.Extraction.MinTextLength)
		ingestCfg.MinContentLength = cfg.Extraction.MinTextLength
	}

	if cfg.Cache.RedisURL != "" {
		redis, err := cache.NewRedis(cfg.Cache.RedisURL, cfg.Cache.Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to make cache invalidator: %w", err)
		}
		ingestCfg.Invalidator = redis
		res.redis = redis
	}

	res.ingester = ingest.New(ingestCfg)
	res.backfiller = ingest.NewBackfiller(backfillCfg)
	return res, nil
}

func (c *components) close() {
	if c.redis == nil {
		return
	}
	if err := c.redis.Close(); err != nil {
		log.Printf("[WARN] failed to close redis client: %v", err)
	}
}

// apply overrides config values with non-zero options
func (o Opts) apply(cfg *config.Config) {
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	setMS := func(dst *time.Duration, v int) {
		if v != 0 {
			*dst = time.Duration(v) * time.Millisecond
		}
	}

	setStr(&cfg.Database.DSN, o.DatabaseURL)
	setStr(&cfg.LLM.APIKey, o.OpenAIKey)
	setStr(&cfg.LLM.Model, o.OpenAIModel)
	setStr(&cfg.Cache.RedisURL, o.RedisURL)
	setStr(&cfg.Server.Listen, o.Listen)

	setInt(&cfg.Ingest.RetentionDays, o.RetentionDays)
	setInt(&cfg.Ingest.ShardCount, o.ShardCount)
	setInt(&cfg.Ingest.ShardIndex, o.ShardIndex)
	setInt(&cfg.Ingest.MaxSources, o.MaxSources)
	setInt(&cfg.Ingest.MaxItemsPerSource, o.MaxItemsPerSource)
	setInt(&cfg.Ingest.Workers, o.Workers)

	setInt(&cfg.Backfill.AILimit, o.AIBackfillLimit)
	setMS(&cfg.Backfill.AIDelay, o.AIBackfillDelayMS)
	setInt(&cfg.Backfill.ImageLimit, o.ImageBackfillLimit)
	setInt(&cfg.Backfill.ImageDays, o.ImageBackfillDays)
	setMS(&cfg.Backfill.ImageDelay, o.ImageBackfillDelayMS)
	if o.ImageBackfillSourceID != 0 {
		cfg.Backfill.ImageSourceID = o.ImageBackfillSourceID
	}
}

func (o Opts) secrets() []string {
	return nonEmpty(o.OpenAIKey, urlPassword(o.DatabaseURL), urlPassword(o.RedisURL))
}

func configSecrets(cfg *config.Config) []string {
	return nonEmpty(cfg.LLM.APIKey, urlPassword(cfg.Database.DSN), urlPassword(cfg.Cache.RedisURL))
}

// urlPassword returns password of postgres or redis url, sqlite dsn has none
func urlPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return ""
	}
	p, _ := u.User.Password()
	return p
}

func nonEmpty(vals ...string) []string {
	res := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
