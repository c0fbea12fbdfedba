package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aktagon/folktale-teller/internal/catalog"
	"github.com/aktagon/folktale-teller/internal/logger"
	"github.com/aktagon/folktale-teller/internal/narrative"
)

const defaultConfigDir = ".folktale"

// Text providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

//go:embed config/settings.yaml
var defaultSettings string

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	SettingsPath      *string
	SummaryPromptPath *string
	ImagePromptPath   *string
	TemplatePath      *string
	OutputDirectory   *string
}

// Settings represents the YAML configuration structure
type Settings struct {
	OutputDirectory string `yaml:"output_directory"`
	Catalog         struct {
		BaseURL      string        `yaml:"base_url"`
		PageNo       int           `yaml:"page_no"`
		NumOfRows    int           `yaml:"num_of_rows"`
		Timeout      time.Duration `yaml:"timeout"`
		StrictHeader bool          `yaml:"strict_header"`
	} `yaml:"catalog"`
	Generator struct {
		TextProvider   string        `yaml:"text_provider"`
		TextModel      string        `yaml:"text_model"`
		ImageModel     string        `yaml:"image_model"`
		AnthropicModel string        `yaml:"anthropic_model"`
		MaxTokens      int           `yaml:"max_tokens"`
		Temperature    float64       `yaml:"temperature"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"generator"`
	Server struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`
	Log logger.Config `yaml:"log"`
}

// Credentials are the secrets for the two upstream services. They never
// come from the settings file.
type Credentials struct {
	CatalogAPIKey   string
	GeminiAPIKey    string
	AnthropicAPIKey string
}

// Config holds configuration and overrides
type Config struct {
	Settings    *Settings
	Credentials Credentials
	Overrides   *ConfigOverrides
}

// NewConfig loads .env files, the settings file and environment overrides.
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	var (
		settings *Settings
		err      error
	)
	if overrides != nil && overrides.SettingsPath != nil {
		settings, err = loadSettings(*overrides.SettingsPath)
	} else {
		if err := ensureConfigExists(); err != nil {
			return nil, fmt.Errorf("ensuring config files exist: %w", err)
		}
		settings, err = loadSettings(getConfigPath("settings.yaml"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	applyEnvOverrides(settings)
	if overrides != nil && overrides.OutputDirectory != nil {
		settings.OutputDirectory = *overrides.OutputDirectory
	}
	settings.setDefaults()

	return &Config{
		Settings:    settings,
		Credentials: credentialsFromEnv(),
		Overrides:   overrides,
	}, nil
}

// Prompts returns the narrative prompt templates (from override files or embedded)
func (c *Config) Prompts() (narrative.Prompts, error) {
	prompts := narrative.DefaultPrompts()
	if c.Overrides == nil {
		return prompts, nil
	}

	if c.Overrides.SummaryPromptPath != nil {
		content, err := os.ReadFile(*c.Overrides.SummaryPromptPath)
		if err != nil {
			return prompts, fmt.Errorf("reading summary prompt: %w", err)
		}
		prompts.Summary = string(content)
	}
	if c.Overrides.ImagePromptPath != nil {
		content, err := os.ReadFile(*c.Overrides.ImagePromptPath)
		if err != nil {
			return prompts, fmt.Errorf("reading image prompt: %w", err)
		}
		prompts.Image = string(content)
	}
	return prompts, prompts.Validate()
}

// Template returns the story card template override, or "" for the embedded one.
func (c *Config) Template() (string, error) {
	if c.Overrides == nil || c.Overrides.TemplatePath == nil {
		return "", nil
	}
	content, err := os.ReadFile(*c.Overrides.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}
	return string(content), nil
}

func (s *Settings) setDefaults() {
	if s.OutputDirectory == "" {
		s.OutputDirectory = "illustrations"
	}
	if s.Catalog.BaseURL == "" {
		s.Catalog.BaseURL = catalog.DefaultBaseURL
	}
	if s.Catalog.PageNo < 1 {
		s.Catalog.PageNo = 1
	}
	if s.Catalog.NumOfRows < 1 {
		s.Catalog.NumOfRows = catalog.DefaultPageSize
	}
	if s.Catalog.Timeout <= 0 {
		s.Catalog.Timeout = catalog.DefaultTimeout
	}
	if s.Generator.TextProvider == "" {
		s.Generator.TextProvider = ProviderGemini
	}
	if s.Generator.TextModel == "" {
		s.Generator.TextModel = narrative.DefaultTextModel
	}
	if s.Generator.ImageModel == "" {
		s.Generator.ImageModel = narrative.DefaultImageModel
	}
	if s.Generator.Timeout <= 0 {
		s.Generator.Timeout = narrative.DefaultTimeout
	}
	if s.Server.Port == 0 {
		s.Server.Port = 8080
	}
	s.Log.SetDefaults()
}

// loadSettings reads and parses a settings file
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", settingsPath, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	return &settings, nil
}

// loadEnvFiles loads .env.local then .env; missing files are ignored and
// variables already set in the environment win.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("FOLKTALE_OUTPUT_DIR"); v != "" {
		s.OutputDirectory = v
	}
	if v := os.Getenv("CATALOG_BASE_URL"); v != "" {
		s.Catalog.BaseURL = v
	}
	if v := os.Getenv("FOLKTALE_TEXT_PROVIDER"); v != "" {
		s.Generator.TextProvider = v
	}
	if v := os.Getenv("FOLKTALE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			s.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		s.Log.Level = v
	}
}

func credentialsFromEnv() Credentials {
	gemini := os.Getenv("GEMINI_API_KEY")
	if gemini == "" {
		gemini = os.Getenv("GOOGLE_API_KEY")
	}
	return Credentials{
		CatalogAPIKey:   os.Getenv("CATALOG_API_KEY"),
		GeminiAPIKey:    gemini,
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
	}
}

// getConfigPath returns the path to a config file in .folktale directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// ensureConfigExists creates config directory and writes settings.yaml if needed
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsPath := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing settings.yaml: %w", err)
		}
	}
	return nil
}
