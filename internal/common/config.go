package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Schedule    ScheduleConfig  `toml:"schedule"`
	Paths       PathsConfig     `toml:"paths"`
	Logging     LoggingConfig   `toml:"logging"`
	EODHD       EODHDConfig     `toml:"eodhd"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Cache       CacheConfig     `toml:"cache"`
	GitHub      GitHubConfig    `toml:"github"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

// ScheduleConfig holds the rotation constants for a generation run
type ScheduleConfig struct {
	LookbackDays int    `toml:"lookback_days" validate:"gte=0"`  // No ticker repeats within this many days
	BufferDays   int    `toml:"buffer_days" validate:"gte=1"`    // Days of future puzzles to keep scheduled
	MaxPerRun    int    `toml:"max_per_run" validate:"gte=1"`    // Cap on puzzles generated per invocation
	KeepDaysBack int    `toml:"keep_days_back" validate:"gte=0"` // History retained when pruning
	Pause        string `toml:"pause"`                           // Pause between generated days (e.g. "2s")
}

// PauseDuration parses Pause, falling back to zero on an empty or invalid value.
func (c ScheduleConfig) PauseDuration() time.Duration {
	return parseDurationOr(c.Pause, 0)
}

// PathsConfig locates the flat documents the pipeline reads and writes
type PathsConfig struct {
	SchedulePath string `toml:"schedule_path" validate:"required"` // public/schedule.json
	PuzzlesDir   string `toml:"puzzles_dir" validate:"required"`   // public/puzzles
	PoolPath     string `toml:"pool_path" validate:"required"`     // scripts/sp500_tickers.json (or .yaml)
	EnvFile      string `toml:"env_file"`                          // Optional .env file with API keys
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for console/file logs
	Dir        string   `toml:"dir"`         // Directory for file output
}

// EODHDConfig configures the market-data provider
type EODHDConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	Exchange  string `toml:"exchange"`                    // EODHD exchange suffix appended to tickers (default: "US")
	RateLimit int    `toml:"rate_limit" validate:"gte=1"` // Requests per second
	Timeout   string `toml:"timeout"`                     // Per-request timeout (default: "30s")
}

// GeminiConfig contains Google Gemini API configuration for hint generation
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key (GEMINI_API_KEY)
	Model       string  `toml:"model"`       // Model used for hint text (default: "gemma-3-12b-it")
	Timeout     string  `toml:"timeout"`     // Per-call timeout for descriptions (default: "45s")
	Temperature float32 `toml:"temperature"` // Description temperature (default: 0.7)
	MaxTokens   int     `toml:"max_tokens"`  // Output token cap for descriptions (default: 500)
}

// ClaudeConfig contains Anthropic Claude API configuration for hint generation
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key (ANTHROPIC_API_KEY)
	Model       string  `toml:"model"`       // Model used for hint text
	Timeout     string  `toml:"timeout"`     // Per-call timeout (default: "45s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
	MaxTokens   int     `toml:"max_tokens"`  // Output token cap (default: 500)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the provider and its retry policy
type LLMConfig struct {
	Provider          LLMProvider `toml:"provider" validate:"oneof=gemini claude"`
	MaxAttempts       int         `toml:"max_attempts" validate:"gte=1"` // Attempts per call (default: 3)
	RateLimitBackoff  string      `toml:"rate_limit_backoff"`            // Base wait after a 429, multiplied by attempt (default: "5s")
	DifficultyTimeout string      `toml:"difficulty_timeout"`            // Per-call timeout for difficulty ratings (default: "30s")
}

// CacheConfig configures the on-disk market data cache
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Badger directory
	TTL     string `toml:"ttl"`  // Entry lifetime (default: "12h")
}

// GitHubConfig configures publishing of generated documents
type GitHubConfig struct {
	Token          string `toml:"token"`
	Repo           string `toml:"repo"`   // "owner/name"
	Branch         string `toml:"branch"` // default: "main"
	SchedulePath   string `toml:"schedule_path"`
	PuzzlesDir     string `toml:"puzzles_dir"`
	CommitterName  string `toml:"committer_name"`
	CommitterEmail string `toml:"committer_email"`
}

// Configured reports whether publishing credentials are present.
func (c GitHubConfig) Configured() bool {
	return c.Token != "" && strings.Contains(c.Repo, "/")
}

// SchedulerConfig configures unattended runs
type SchedulerConfig struct {
	Cron       string `toml:"cron"`         // Standard 5-field cron expression
	RunOnStart bool   `toml:"run_on_start"` // Run once immediately when the watcher starts
	Publish    bool   `toml:"publish"`      // Publish the schedule after each unattended run
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Schedule: ScheduleConfig{
			LookbackDays: 90, // Don't repeat any ticker used in the last 90 days
			BufferDays:   30, // Maintain a ~30-day lookahead buffer
			MaxPerRun:    3,  // Keep single runs short and under rate limits
			KeepDaysBack: 7,
			Pause:        "2s",
		},
		Paths: PathsConfig{
			SchedulePath: "public/schedule.json",
			PuzzlesDir:   "public/puzzles",
			PoolPath:     "scripts/sp500_tickers.json",
			EnvFile:      ".env",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
			Dir:        "./logs",
		},
		EODHD: EODHDConfig{
			BaseURL:   "https://eodhd.com/api",
			Exchange:  "US",
			RateLimit: 5,
			Timeout:   "30s",
		},
		Gemini: GeminiConfig{
			Model:       "gemma-3-12b-it",
			Timeout:     "45s",
			Temperature: 0.7,
			MaxTokens:   500,
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-4-5",
			Timeout:     "45s",
			Temperature: 0.7,
			MaxTokens:   500,
		},
		LLM: LLMConfig{
			Provider:          LLMProviderGemini,
			MaxAttempts:       3,
			RateLimitBackoff:  "5s",
			DifficultyTimeout: "30s",
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    "./data/cache",
			TTL:     "12h",
		},
		GitHub: GitHubConfig{
			Branch:         "main",
			SchedulePath:   "public/schedule.json",
			PuzzlesDir:     "public/puzzles",
			CommitterName:  "canDLE Bot",
			CommitterEmail: "bot@candle.game",
		},
		Scheduler: SchedulerConfig{
			Cron: "0 6 * * *",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> files -> .env -> environment.
// Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := loadEnvFile(config.Paths.EnvFile); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile populates the process environment from a dotenv file.
// A missing file is not an error; existing variables are never overwritten.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CANDLE_ENV"); env != "" {
		config.Environment = env
	}

	// Schedule configuration
	if v := os.Getenv("CANDLE_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Schedule.LookbackDays = n
		}
	}
	if v := os.Getenv("CANDLE_BUFFER_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Schedule.BufferDays = n
		}
	}
	if v := os.Getenv("CANDLE_MAX_PER_RUN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Schedule.MaxPerRun = n
		}
	}
	if v := os.Getenv("CANDLE_KEEP_DAYS_BACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Schedule.KeepDaysBack = n
		}
	}
	if v := os.Getenv("CANDLE_PAUSE"); v != "" {
		config.Schedule.Pause = v
	}

	// Paths
	if v := os.Getenv("CANDLE_SCHEDULE_PATH"); v != "" {
		config.Paths.SchedulePath = v
	}
	if v := os.Getenv("CANDLE_PUZZLES_DIR"); v != "" {
		config.Paths.PuzzlesDir = v
	}
	if v := os.Getenv("CANDLE_POOL_PATH"); v != "" {
		config.Paths.PoolPath = v
	}

	// Logging configuration
	if level := os.Getenv("CANDLE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("CANDLE_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Market data
	if apiKey := os.Getenv("CANDLE_EODHD_API_KEY"); apiKey != "" {
		config.EODHD.APIKey = apiKey
	} else if apiKey := os.Getenv("EODHD_API_KEY"); apiKey != "" {
		config.EODHD.APIKey = apiKey
	}
	if baseURL := os.Getenv("CANDLE_EODHD_BASE_URL"); baseURL != "" {
		config.EODHD.BaseURL = baseURL
	}

	// Gemini: GEMINI_API_KEY is what the CI workflow exports
	if apiKey := os.Getenv("CANDLE_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("CANDLE_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	// Claude
	if apiKey := os.Getenv("CANDLE_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	} else if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("CANDLE_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	if provider := os.Getenv("CANDLE_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = LLMProvider(strings.ToLower(provider))
	}

	// Cache
	if enabled := os.Getenv("CANDLE_CACHE_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Cache.Enabled = b
		}
	}
	if path := os.Getenv("CANDLE_CACHE_PATH"); path != "" {
		config.Cache.Path = path
	}

	// GitHub publishing
	if token := os.Getenv("CANDLE_GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	} else if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	}
	if repo := os.Getenv("CANDLE_GITHUB_REPO"); repo != "" {
		config.GitHub.Repo = repo
	} else if repo := os.Getenv("GITHUB_REPO"); repo != "" {
		config.GitHub.Repo = repo
	}
	if branch := os.Getenv("CANDLE_GITHUB_BRANCH"); branch != "" {
		config.GitHub.Branch = branch
	}

	if cronExpr := os.Getenv("CANDLE_SCHEDULER_CRON"); cronExpr != "" {
		config.Scheduler.Cron = cronExpr
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Flags have the highest priority.
func ApplyFlagOverrides(config *Config, logLevel string, maxPerRun int) {
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
	if maxPerRun > 0 {
		config.Schedule.MaxPerRun = maxPerRun
	}
}

// ValidateConfig checks struct-level constraints and duration strings.
func ValidateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	durations := map[string]string{
		"schedule.pause":         config.Schedule.Pause,
		"eodhd.timeout":          config.EODHD.Timeout,
		"gemini.timeout":         config.Gemini.Timeout,
		"claude.timeout":         config.Claude.Timeout,
		"llm.rate_limit_backoff": config.LLM.RateLimitBackoff,
		"llm.difficulty_timeout": config.LLM.DifficultyTimeout,
		"cache.ttl":              config.Cache.TTL,
	}
	for name, value := range durations {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid configuration: %s %q: %w", name, value, err)
		}
	}

	if config.Scheduler.Cron != "" {
		if err := ValidateCronSchedule(config.Scheduler.Cron); err != nil {
			return fmt.Errorf("invalid configuration: scheduler.cron: %w", err)
		}
	}
	return nil
}

// ValidateCronSchedule checks a standard 5-field cron expression.
// Descriptors such as "@daily" are accepted as well.
func ValidateCronSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// ParseDurationOr parses value, returning fallback when it is empty or invalid.
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	return parseDurationOr(value, fallback)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
