package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// defaults shared with the cli help
const (
	DefaultDSN           = "file:newsbeat.db?cache=shared&mode=rwc&_txlock=immediate"
	DefaultLLMEndpoint   = "https://api.openai.com/v1"
	DefaultLLMModel      = "gpt-4o-mini"
	DefaultCachePrefix   = "news:v1:"
	DefaultRetentionDays = 20
)

// DefaultScrapeHosts is the publisher allow-list for page image scraping
var DefaultScrapeHosts = []string{"financefeeds.com"}

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP status server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Status server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newsbeat.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string (sqlite file or postgres url)"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Feed FeedConfig `yaml:"feed" json:"feed" jsonschema:"description=Feed fetching configuration"`

	Ingest IngestConfig `yaml:"ingest" json:"ingest" jsonschema:"description=Ingestion batch configuration"`

	Image ImageConfig `yaml:"image" json:"image" jsonschema:"description=Image resolution configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for headline and summary generation"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`

	Cache CacheConfig `yaml:"cache" json:"cache" jsonschema:"description=Read API cache invalidation"`

	Backfill BackfillConfig `yaml:"backfill" json:"backfill" jsonschema:"description=Backfill passes configuration"`

	Sources []SourceConfig `yaml:"sources" json:"sources" jsonschema:"description=Sources seeded into the database on start"`
}

// FeedConfig holds feed fetcher settings
type FeedConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Feed request timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for feed and page requests"`
}

// IngestConfig holds batch settings
type IngestConfig struct {
	RetentionDays     int           `yaml:"retention_days" json:"retention_days" jsonschema:"default=20,minimum=1,description=Articles older than this are deleted"`
	ShardCount        int           `yaml:"shard_count" json:"shard_count" jsonschema:"default=0,minimum=0,description=Number of shards (0 disables sharding)"`
	ShardIndex        int           `yaml:"shard_index" json:"shard_index" jsonschema:"default=0,minimum=0,description=Shard processed by this invocation"`
	MaxSources        int           `yaml:"max_sources" json:"max_sources" jsonschema:"default=0,description=Maximum sources per batch (0 for no limit)"`
	MaxItemsPerSource int           `yaml:"max_items_per_source" json:"max_items_per_source" jsonschema:"default=0,description=Maximum items taken from one feed (0 for no limit)"`
	Workers           int           `yaml:"workers" json:"workers" jsonschema:"default=1,minimum=1,description=Sources processed concurrently"`
	Interval          time.Duration `yaml:"interval" json:"interval" jsonschema:"default=30m,description=Ingestion interval in daemon mode"`
}

// ImageConfig holds image resolver settings
type ImageConfig struct {
	ScrapeHosts []string      `yaml:"scrape_hosts" json:"scrape_hosts" jsonschema:"default=financefeeds.com,description=Publisher domains whose pages are scraped for og/twitter images (empty list disables scraping)"`
	ScrapeDelay time.Duration `yaml:"scrape_delay" json:"scrape_delay" jsonschema:"default=120ms,description=Pause before every page request"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Page request timeout"`
}

// LLMConfig holds LLM configuration for article enrichment
type LLMConfig struct {
	Endpoint         string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.openai.com/v1,description=OpenAI-compatible API endpoint"`
	APIKey           string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model            string        `yaml:"model" json:"model" jsonschema:"default=gpt-4o-mini,description=Model name"`
	Temperature      float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.2,description=Temperature for response generation"`
	MaxTokens        int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=300,description=Maximum tokens in response"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	SystemPrompt     string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override (optional)"`
	MaxAttempts      int           `yaml:"max_attempts" json:"max_attempts" jsonschema:"default=6,minimum=1,description=Attempts per article when rate limited"`
	BackoffStep      time.Duration `yaml:"backoff_step" json:"backoff_step" jsonschema:"default=1s,description=Rate limit backoff multiplied by attempt number"`
	Throttle         time.Duration `yaml:"throttle" json:"throttle" jsonschema:"default=150ms,description=Pause before every request"`
	MaxContentLength int           `yaml:"max_content_length" json:"max_content_length" jsonschema:"default=4000,description=Article text sent to the model is cut to this many characters"`
	UseJSONSchema    bool          `yaml:"use_json_schema" json:"use_json_schema" jsonschema:"default=false,description=Use strict json_schema response format instead of json_object"`
}

// Enabled reports whether enrichment can run. The public endpoint needs a key, custom endpoints may not.
func (c LLMConfig) Enabled() bool {
	if c.APIKey != "" {
		return true
	}
	return c.Endpoint != "" && strings.TrimSuffix(c.Endpoint, "/") != DefaultLLMEndpoint
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Extract page text when the feed item has too little"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Newsbeat/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=200,description=Feed text shorter than this triggers extraction"`
}

// CacheConfig holds read cache invalidation settings
type CacheConfig struct {
	RedisURL string `yaml:"redis_url" json:"redis_url" jsonschema:"description=Redis url (empty relies on cache TTL expiry)"`
	Prefix   string `yaml:"prefix" json:"prefix" jsonschema:"default=news:v1:,description=Key prefix of cached read API responses"`
}

// BackfillConfig holds AI and image backfill settings
type BackfillConfig struct {
	AILimit       int           `yaml:"ai_limit" json:"ai_limit" jsonschema:"default=25,description=Articles per AI backfill pass"`
	AIDelay       time.Duration `yaml:"ai_delay" json:"ai_delay" jsonschema:"default=800ms,description=Pause between AI backfill calls"`
	AIInterval    time.Duration `yaml:"ai_interval" json:"ai_interval" jsonschema:"default=0s,description=AI backfill interval in daemon mode (0 disables)"`
	ImageLimit    int           `yaml:"image_limit" json:"image_limit" jsonschema:"default=80,description=Articles per image backfill pass"`
	ImageDays     int           `yaml:"image_days" json:"image_days" jsonschema:"default=14,description=Only articles newer than this are considered"`
	ImageDelay    time.Duration `yaml:"image_delay" json:"image_delay" jsonschema:"default=250ms,description=Pause between scraped pages"`
	ImageSourceID int64         `yaml:"image_source_id" json:"image_source_id" jsonschema:"default=0,description=Restrict image backfill to one source (0 for all)"`
}

// SourceConfig defines a source seeded on start
type SourceConfig struct {
	Name     string `yaml:"name" json:"name" jsonschema:"required,description=Display name"`
	RSSURL   string `yaml:"rss_url" json:"rss_url" jsonschema:"description=Feed url (sources without one are not ingested)"`
	Category string `yaml:"category" json:"category" jsonschema:"description=Category name"`
}

// Load reads configuration from a YAML file. Empty path returns defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// SetDefaults fills zero values with defaults
func (c *Config) SetDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = DefaultDSN
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// feed
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 10 * time.Second
	}

	// ingest
	if c.Ingest.RetentionDays == 0 {
		c.Ingest.RetentionDays = DefaultRetentionDays
	}
	if c.Ingest.Workers == 0 {
		c.Ingest.Workers = 1
	}
	if c.Ingest.Interval == 0 {
		c.Ingest.Interval = 30 * time.Minute
	}

	// image, nil allow-list gets the default, an explicit empty list keeps scraping off
	if c.Image.ScrapeHosts == nil {
		c.Image.ScrapeHosts = append([]string(nil), DefaultScrapeHosts...)
	}
	if c.Image.ScrapeDelay == 0 {
		c.Image.ScrapeDelay = 120 * time.Millisecond
	}
	if c.Image.Timeout == 0 {
		c.Image.Timeout = 10 * time.Second
	}

	// llm
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = DefaultLLMEndpoint
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultLLMModel
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 300
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.LLM.MaxAttempts == 0 {
		c.LLM.MaxAttempts = 6
	}
	if c.LLM.BackoffStep == 0 {
		c.LLM.BackoffStep = time.Second
	}
	if c.LLM.Throttle == 0 {
		c.LLM.Throttle = 150 * time.Millisecond
	}
	if c.LLM.MaxContentLength == 0 {
		c.LLM.MaxContentLength = 4000
	}

	// extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "Newsbeat/1.0"
	}
	if c.Extraction.MinTextLength == 0 {
		c.Extraction.MinTextLength = 200
	}

	// cache
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = DefaultCachePrefix
	}

	// backfill
	if c.Backfill.AILimit == 0 {
		c.Backfill.AILimit = 25
	}
	if c.Backfill.AIDelay == 0 {
		c.Backfill.AIDelay = 800 * time.Millisecond
	}
	if c.Backfill.ImageLimit == 0 {
		c.Backfill.ImageLimit = 80
	}
	if c.Backfill.ImageDays == 0 {
		c.Backfill.ImageDays = 14
	}
	if c.Backfill.ImageDelay == 0 {
		c.Backfill.ImageDelay = 250 * time.Millisecond
	}
}

// Validate checks configuration for correctness
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	// validate ingest config
	if c.Ingest.RetentionDays < 1 {
		return fmt.Errorf("ingest.retention_days must be at least 1")
	}
	if c.Ingest.ShardCount < 0 {
		return fmt.Errorf("ingest.shard_count must be non-negative")
	}
	if c.Ingest.ShardIndex < 0 {
		return fmt.Errorf("ingest.shard_index must be non-negative")
	}
	if c.Ingest.ShardCount == 0 && c.Ingest.ShardIndex != 0 {
		return fmt.Errorf("ingest.shard_index requires ingest.shard_count")
	}
	if c.Ingest.ShardCount > 0 && c.Ingest.ShardIndex >= c.Ingest.ShardCount {
		return fmt.Errorf("ingest.shard_index must be in [0, %d)", c.Ingest.ShardCount)
	}
	if c.Ingest.MaxSources < 0 || c.Ingest.MaxItemsPerSource < 0 {
		return fmt.Errorf("ingest limits must be non-negative")
	}
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("ingest.workers must be at least 1")
	}

	// validate LLM config
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxAttempts < 1 {
		return fmt.Errorf("llm.max_attempts must be at least 1")
	}
	if c.LLM.MaxContentLength < 0 {
		return fmt.Errorf("llm.max_content_length must be non-negative")
	}

	// validate extraction config
	if c.Extraction.Enabled {
		if c.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if c.Extraction.MinTextLength < 0 {
			return fmt.Errorf("extraction min_text_length must be non-negative")
		}
	}

	// validate backfill config
	if c.Backfill.AILimit < 0 || c.Backfill.ImageLimit < 0 || c.Backfill.ImageDays < 0 {
		return fmt.Errorf("backfill limits must be non-negative")
	}

	// validate sources
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("sources[%d].name is required", i)
		}
	}

	// validate server config
	if c.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// Retention returns the retention window as duration
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Ingest.RetentionDays) * 24 * time.Hour
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
