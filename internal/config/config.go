package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// ErrMissingToken is returned by LoadToken when neither token variable is set.
var ErrMissingToken = errors.New("GitHub token not found")

// TokenEnvVars lists the environment variables consulted for the access token,
// in priority order.
var TokenEnvVars = []string{"GH_PAT", "GITHUB_TOKEN"}

// Config represents the dailycontrib configuration.
type Config struct {
	Repos     []string    `yaml:"repos" json:"repos"`
	Labels    []string    `yaml:"labels" json:"labels"`
	MaxIssues int         `yaml:"maxIssues" json:"maxIssues"`
	PerLabel  int         `yaml:"perLabel" json:"perLabel"`
	BodyLimit int         `yaml:"bodyLimit" json:"bodyLimit"`
	LogFile   string      `yaml:"logFile" json:"logFile"`
	Format    string      `yaml:"format" json:"format"`
	LogLevel  string      `yaml:"logLevel" json:"logLevel"`
	APIURL    string      `yaml:"apiURL,omitempty" json:"apiURL,omitempty"`
	DryRun    bool        `yaml:"dryRun" json:"dryRun"`
	Cache     CacheConfig `yaml:"cache" json:"cache"`
}

// CacheConfig controls the HTTP response cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Dir        string `yaml:"dir,omitempty" json:"dir,omitempty"`
	TTLSeconds int    `yaml:"ttlSeconds" json:"ttlSeconds"`
}

// DefaultRepos are the projects searched when no repos are configured.
var DefaultRepos = []string{
	"apache/airflow",
	"apache/spark",
	"dbt-labs/dbt-core",
	"tensorflow/tensorflow",
	"pytorch/pytorch",
	"pandas-dev/pandas",
	"scikit-learn/scikit-learn",
	"huggingface/transformers",
	"mlflow/mlflow",
	"ray-project/ray",
	"dagster-io/dagster",
	"prefecthq/prefect",
	"great-expectations/great_expectations",
}

// DefaultLabels are the beginner-friendly labels searched in each repo.
var DefaultLabels = []string{
	"good first issue",
	"documentation",
	"help wanted",
	"beginner",
	"easy",
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Repos:     append([]string(nil), DefaultRepos...),
		Labels:    append([]string(nil), DefaultLabels...),
		MaxIssues: 3,
		PerLabel:  2,
		BodyLimit: 200,
		LogFile:   "contributions.json",
		Format:    "text",
		LogLevel:  "info",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
	}
}

var repoNameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// Validate checks that the effective configuration can drive a run.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Repos, validation.Required,
			validation.Each(validation.Required, validation.Match(repoNameRe).Error("must be in owner/name form"))),
		validation.Field(&c.Labels, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.MaxIssues, validation.Required, validation.Min(1)),
		validation.Field(&c.PerLabel, validation.Required, validation.Min(1)),
		validation.Field(&c.BodyLimit, validation.Required, validation.Min(1)),
		validation.Field(&c.LogFile, validation.Required),
		validation.Field(&c.Format, validation.Required, validation.In("text", "json", "markdown")),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// LoadToken returns the first non-empty token among TokenEnvVars.
func LoadToken(getenv func(string) string) (string, error) {
	for _, name := range TokenEnvVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v, nil
		}
	}
	return "", ErrMissingToken
}

// ConfigDir returns the platform-appropriate config directory for dailycontrib.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dailycontrib"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "dailycontrib"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "dailycontrib"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "dailycontrib"), nil
	default:
		return filepath.Join(home, ".config", "dailycontrib"), nil
	}
}

// pathOverride is set by the --config flag.
var pathOverride string

// UsePath makes ConfigPath return path. An empty path restores the default lookup.
func UsePath(path string) {
	pathOverride = path
}

// ConfigPath returns the full path to the config file. The --config flag wins,
// then DAILYCONTRIB_CONFIG, then the platform config directory.
func ConfigPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	if p := os.Getenv("DAILYCONTRIB_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if err := checkExplicitCounts(data); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// countKeys are merged only when positive, so an explicit zero in the file
// would otherwise fall back to the default without notice.
var countKeys = []string{"maxIssues", "perLabel", "bodyLimit"}

func checkExplicitCounts(data []byte) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range countKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if n, isInt := v.(int); isInt && n < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", key, n)
		}
	}
	return nil
}

// LoadFileWithDefaults returns the defaults overlaid with the config file, without
// environment or flag overrides. It is the starting point for editing the file.
func LoadFileWithDefaults() (Config, error) {
	cfg := Default()
	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if len(src.Repos) > 0 {
		dst.Repos = src.Repos
	}
	if len(src.Labels) > 0 {
		dst.Labels = src.Labels
	}
	if src.MaxIssues > 0 {
		dst.MaxIssues = src.MaxIssues
	}
	if src.PerLabel > 0 {
		dst.PerLabel = src.PerLabel
	}
	if src.BodyLimit > 0 {
		dst.BodyLimit = src.BodyLimit
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.APIURL != "" {
		dst.APIURL = src.APIURL
	}
	dst.DryRun = src.DryRun || dst.DryRun
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// A zero bool can't be told apart from an unset one, so the file can only
	// switch the cache off when it also carries some other cache setting.
	if src.Cache.Dir != "" || src.Cache.TTLSeconds > 0 {
		dst.Cache.Enabled = src.Cache.Enabled
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("DAILYCONTRIB_REPOS"); v != "" {
		cfg.Repos = SplitList(v)
	}
	if v := os.Getenv("DAILYCONTRIB_LABELS"); v != "" {
		cfg.Labels = SplitList(v)
	}
	if v := os.Getenv("DAILYCONTRIB_MAX_ISSUES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DAILYCONTRIB_MAX_ISSUES must be an integer: %w", err)
		}
		cfg.MaxIssues = n
	}
	if v := os.Getenv("DAILYCONTRIB_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("DAILYCONTRIB_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("DAILYCONTRIB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DAILYCONTRIB_DRY_RUN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DAILYCONTRIB_DRY_RUN must be a boolean: %w", err)
		}
		cfg.DryRun = b
	}
	if v := os.Getenv("GITHUB_API_URL"); v != "" {
		cfg.APIURL = v
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "repos":
		cfg.Repos = SplitList(value)
	case "labels":
		cfg.Labels = SplitList(value)
	case "maxIssues":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxIssues must be an integer: %w", err)
		}
		cfg.MaxIssues = n
	case "perLabel":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("perLabel must be an integer: %w", err)
		}
		cfg.PerLabel = n
	case "bodyLimit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bodyLimit must be an integer: %w", err)
		}
		cfg.BodyLimit = n
	case "logFile":
		cfg.LogFile = value
	case "format":
		cfg.Format = value
	case "logLevel":
		cfg.LogLevel = value
	case "apiURL":
		cfg.APIURL = value
	case "dryRun":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("dryRun must be a boolean: %w", err)
		}
		cfg.DryRun = b
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be a boolean: %w", err)
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttlSeconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping empty parts.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
