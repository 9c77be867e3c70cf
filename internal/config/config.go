// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config represents the agent configuration. Values come from a JSON file,
// environment variables, and CLI flags, merged in that order with flags
// winning. Fields required for sending mail are validated only when a run
// actually intends to send.
type Config struct {
	// Candidate
	ResumePath    string `json:"resume_path,omitempty" validate:"required"`
	CandidateName string `json:"candidate_name,omitempty"`
	AgentName     string `json:"agent_name,omitempty"`

	// Mail
	SenderEmail       string `json:"sender_email,omitempty" validate:"required,email"`
	SenderAppPassword string `json:"sender_app_password,omitempty" validate:"required"`
	SMTPHost          string `json:"smtp_host,omitempty"`
	SMTPPort          int    `json:"smtp_port,omitempty" validate:"gte=0,lte=65535"`

	// Models and search
	APIKey          string `json:"api_key,omitempty"`
	GoogleSearchKey string `json:"google_search_api_key,omitempty"`
	GoogleSearchCX  string `json:"google_search_cx,omitempty"`

	// Behavior
	CacheDir string `json:"cache_dir,omitempty"`
	Strategy string `json:"strategy,omitempty" validate:"omitempty,oneof=llm heuristic"`
	Verbose  bool   `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Call after godotenv
// has loaded any .env file. A non-numeric SMTP_PORT is treated as unset.
func FromEnv() *Config {
	return &Config{
		ResumePath:        os.Getenv("RESUME_PATH"),
		CandidateName:     os.Getenv("YOUR_NAME"),
		SenderEmail:       os.Getenv("SENDER_EMAIL"),
		SenderAppPassword: os.Getenv("SENDER_APP_PASSWORD"),
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          envInt("SMTP_PORT"),
		APIKey:            os.Getenv("GEMINI_API_KEY"),
		GoogleSearchKey:   os.Getenv("GOOGLE_SEARCH_API_KEY"),
		GoogleSearchCX:    os.Getenv("GOOGLE_SEARCH_CX"),
		CacheDir:          os.Getenv("SCOUT_CACHE_DIR"),
	}
}

func envInt(name string) int {
	value := os.Getenv(name)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Printf("[config] ignoring non-numeric %s=%q\n", name, value)
		return 0
	}
	return n
}

// Validate checks the fields needed for a full apply run. It fails loudly
// before any pipeline work so a long run never dies at the send step.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("config error: field %s failed %q validation", e.Field(), e.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if _, err := os.Stat(c.ResumePath); os.IsNotExist(err) {
		return fmt.Errorf("config error: resume file not found: %s", c.ResumePath)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Used to layer config file values under environment values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ResumePath == "" {
		result.ResumePath = defaults.ResumePath
	}
	if result.CandidateName == "" {
		result.CandidateName = defaults.CandidateName
	}
	if result.AgentName == "" {
		result.AgentName = defaults.AgentName
	}
	if result.SenderEmail == "" {
		result.SenderEmail = defaults.SenderEmail
	}
	if result.SenderAppPassword == "" {
		result.SenderAppPassword = defaults.SenderAppPassword
	}
	if result.SMTPHost == "" {
		result.SMTPHost = defaults.SMTPHost
	}
	if result.SMTPPort == 0 {
		result.SMTPPort = defaults.SMTPPort
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.GoogleSearchKey == "" {
		result.GoogleSearchKey = defaults.GoogleSearchKey
	}
	if result.GoogleSearchCX == "" {
		result.GoogleSearchCX = defaults.GoogleSearchCX
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.Strategy == "" {
		result.Strategy = defaults.Strategy
	}
	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
