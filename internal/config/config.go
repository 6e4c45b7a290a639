// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate config

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "go-jobsift/internal/errors"
	"go-jobsift/internal/models"
)

const (
	DefaultHoursOld = 24
	DefaultMaxJobs  = 10
)

// Optional numbers are pointers: an unset key takes the default, an explicit
// 0 is kept (hours_old: 0 means no age limit).
type Config struct {
	//Where exports and logs go
	OutputDir string `yaml:"output_dir" validate:"required"`
	LogFile   string `yaml:"log_file"`

	//Search criteria, every term runs against every search
	Terms                    []string `yaml:"terms" validate:"min=1,dive,required"`
	Searches                 []Search `yaml:"searches" validate:"min=1,dive"`
	Sites                    []string `yaml:"sites" validate:"min=1,dive,oneof=indeed linkedin zip_recruiter glassdoor google bayt naukri"`
	HoursOld                 *int     `yaml:"hours_old" validate:"omitempty,gte=0"`
	ResultsWanted            int      `yaml:"results_wanted" validate:"gte=1"`
	CountryIndeed            string   `yaml:"country_indeed"`
	LinkedInFetchDescription *bool    `yaml:"linkedin_fetch_description"`
	DescriptionFormat        string   `yaml:"description_format" validate:"oneof=markdown html plain"`

	Exclusions Exclusions      `yaml:"exclusions"`
	Collector  CollectorConfig `yaml:"collector"`
	SeenStore  SeenStoreConfig `yaml:"seen_store"`
	Telegram   TelegramConfig  `yaml:"telegram"`

	//watch mode
	Schedule string `yaml:"schedule"`
	Listen   string `yaml:"listen"`
}

// Search is one location to query. FilterState, when set, drops postings
// outside that two letter region.
type Search struct {
	Location    string `yaml:"location" validate:"required"`
	Distance    int    `yaml:"distance" validate:"gte=0"`
	IsRemote    bool   `yaml:"is_remote"`
	FilterState string `yaml:"filter_state" validate:"omitempty,len=2,uppercase"`
}

// Exclusions are shared by every search. A nil list takes the default, an
// explicit empty list disables the rule.
type Exclusions struct {
	Companies  []string `yaml:"companies"`
	TitleTerms []string `yaml:"title_terms"`
}

type CollectorConfig struct {
	Kind          string        `yaml:"kind" validate:"oneof=jobspy linkedin replay"`
	JobSpyURL     string        `yaml:"jobspy_url" validate:"omitempty,url"`
	APIKey        string        `yaml:"api_key"`
	Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
	Headless      *bool         `yaml:"headless"`
	CookiesPath   string        `yaml:"cookies_path"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
	ReplayDir     string        `yaml:"replay_dir" validate:"required_if=Kind replay"`
	//when set, every raw batch is written here in replay format
	CaptureDir string `yaml:"capture_dir"`
}

type SeenStoreConfig struct {
	Backend     string `yaml:"backend" validate:"oneof=file redis postgres memory"`
	Path        string `yaml:"path" validate:"required_if=Backend file"`
	RedisURL    string `yaml:"redis_url" validate:"required_if=Backend redis"`
	RedisKey    string `yaml:"redis_key"`
	DatabaseURL string `yaml:"database_url" validate:"required_if=Backend postgres"`
}

type TelegramConfig struct {
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
	MaxJobs *int   `yaml:"max_jobs" validate:"omitempty,gte=0"`
}

// Limit is the number of jobs listed per notification; 0 lists none
func (t TelegramConfig) Limit() int {
	if t.MaxJobs == nil {
		return DefaultMaxJobs
	}
	return *t.MaxJobs
}

// Enabled reports whether both credentials are present
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Load reads path, applies env overrides and defaults, and validates the
// result. Any problem is an INVALID_CONFIG error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		return nil, apperrors.InvalidConfig("config path is required", nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.InvalidConfig("could not read config file", err)
	}

	return Parse(data)
}

// Parse is Load without the file and .env handling
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.InvalidConfig("error parsing config yaml", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, apperrors.InvalidConfig("config validation failed", err)
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	overrides := map[string]*string{
		"JOBSIFT_OUTPUT_DIR": &cfg.OutputDir,
		"JOBSIFT_LOG_FILE":   &cfg.LogFile,
		"JOBSIFT_SEEN_PATH":  &cfg.SeenStore.Path,
		"REDIS_URL":          &cfg.SeenStore.RedisURL,
		"DATABASE_URL":       &cfg.SeenStore.DatabaseURL,
		"JOBSPY_API_URL":     &cfg.Collector.JobSpyURL,
		"JOBSPY_API_KEY":     &cfg.Collector.APIKey,
		"TELEGRAM_BOT_TOKEN": &cfg.Telegram.Token,
	}
	for name, field := range overrides {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return apperrors.InvalidConfig(fmt.Sprintf("invalid TELEGRAM_CHAT_ID %q", chatID), err)
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}

//Set default values if not set
func (cfg *Config) applyDefaults() {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "jobsift.log"
	}
	if len(cfg.Terms) == 0 {
		cfg.Terms = []string{"software engineer"}
	}
	if len(cfg.Searches) == 0 {
		cfg.Searches = []Search{
			{Location: "New York, NY", Distance: 5, FilterState: "NY"},
			{Location: "Westport, CT", Distance: 40, FilterState: "CT"},
			{Location: "Boston, MA", Distance: 20, FilterState: "MA"},
		}
	}
	if len(cfg.Sites) == 0 {
		cfg.Sites = []string{string(models.SiteIndeed), string(models.SiteLinkedIn)}
	}
	if cfg.HoursOld == nil {
		cfg.HoursOld = intPtr(DefaultHoursOld)
	}
	if cfg.ResultsWanted == 0 {
		cfg.ResultsWanted = 100
	}
	if cfg.CountryIndeed == "" {
		cfg.CountryIndeed = "USA"
	}
	if cfg.LinkedInFetchDescription == nil {
		cfg.LinkedInFetchDescription = boolPtr(true)
	}
	if cfg.DescriptionFormat == "" {
		cfg.DescriptionFormat = "markdown"
	}

	if cfg.Exclusions.Companies == nil {
		cfg.Exclusions.Companies = []string{"Jobright.ai", "Jobs via Dice", "Lensa"}
	}
	if cfg.Exclusions.TitleTerms == nil {
		cfg.Exclusions.TitleTerms = []string{"Senior", "Sr", "Lead", "Founding", "III", "IV", "Manager", "Staff", "Principal"}
	}

	if cfg.Collector.Kind == "" {
		cfg.Collector.Kind = "jobspy"
	}
	if cfg.Collector.JobSpyURL == "" && cfg.Collector.Kind == "jobspy" {
		cfg.Collector.JobSpyURL = "http://localhost:8000"
	}
	if cfg.Collector.Timeout == 0 {
		cfg.Collector.Timeout = 5 * time.Minute
	}
	if cfg.Collector.Headless == nil {
		cfg.Collector.Headless = boolPtr(true)
	}

	if cfg.SeenStore.Backend == "" {
		cfg.SeenStore.Backend = "file"
	}
	if cfg.SeenStore.Path == "" {
		cfg.SeenStore.Path = "seen_linkedin_ids.txt"
	}

	if cfg.Telegram.MaxJobs == nil {
		cfg.Telegram.MaxJobs = intPtr(DefaultMaxJobs)
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 8 * * *"
	}
}

// Lookback is the posting age limit in hours; 0 means no limit
func (cfg *Config) Lookback() int {
	if cfg.HoursOld == nil {
		return DefaultHoursOld
	}
	return *cfg.HoursOld
}

// SiteList returns the configured sites as typed values
func (cfg *Config) SiteList() []models.Site {
	sites := make([]models.Site, len(cfg.Sites))
	for i, s := range cfg.Sites {
		sites[i] = models.ParseSite(s)
	}
	return sites
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}
