package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aktagon/folktale-teller/internal/catalog"
	"github.com/aktagon/folktale-teller/internal/export"
	"github.com/aktagon/folktale-teller/internal/logger"
)

var (
	configFile        string
	catalogKey        string
	geminiKey         string
	summaryPromptPath string
	imagePromptPath   string
	templatePath      string
	outputDir         string
	pageNo            int
	numOfRows         int
	debugMode         bool
)

var rootCmd = &cobra.Command{
	Use:   "folktale",
	Short: "Browse Korean folktales and illustrate them with AI",
	Long: `Lists Korean folktales from the KCISA public catalog, summarizes them
for children and draws an illustration from the summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to settings file (default .folktale/settings.yaml)")
	flags.StringVar(&catalogKey, "catalog-key", "", "KCISA catalog service key")
	flags.StringVar(&geminiKey, "gemini-key", "", "Gemini API key")
	flags.StringVar(&summaryPromptPath, "summary-prompt", "", "Path to custom summary prompt file")
	flags.StringVar(&imagePromptPath, "image-prompt", "", "Path to custom image prompt file")
	flags.StringVar(&templatePath, "template", "", "Path to custom story card template file")
	flags.IntVar(&pageNo, "page", 0, "Catalog page number")
	flags.IntVar(&numOfRows, "rows", 0, "Catalog rows per page")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(storiesCmd, summarizeCmd, illustrateCmd, serveCmd)
}

// app bundles what every command needs.
type app struct {
	config *Config
	log    logger.Logger
}

// newApp loads configuration and applies command line flags on top of it.
func newApp() (*app, error) {
	overrides := &ConfigOverrides{}
	if configFile != "" {
		overrides.SettingsPath = &configFile
	}
	if summaryPromptPath != "" {
		overrides.SummaryPromptPath = &summaryPromptPath
	}
	if imagePromptPath != "" {
		overrides.ImagePromptPath = &imagePromptPath
	}
	if templatePath != "" {
		overrides.TemplatePath = &templatePath
	}
	if outputDir != "" {
		overrides.OutputDirectory = &outputDir
	}

	cfg, err := NewConfig(overrides)
	if err != nil {
		return nil, err
	}

	if catalogKey != "" {
		cfg.Credentials.CatalogAPIKey = catalogKey
	}
	if geminiKey != "" {
		cfg.Credentials.GeminiAPIKey = geminiKey
	}
	if pageNo > 0 {
		cfg.Settings.Catalog.PageNo = pageNo
	}
	if numOfRows > 0 {
		cfg.Settings.Catalog.NumOfRows = numOfRows
	}
	if debugMode {
		cfg.Settings.Log.Level = "debug"
		cfg.Settings.Log.Development = true
	}

	log, err := logger.New(cfg.Settings.Log)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &app{config: cfg, log: log}, nil
}

func (a *app) catalogClient() *catalog.Client {
	settings := a.config.Settings.Catalog
	return catalog.NewClient(a.config.Credentials.CatalogAPIKey, catalog.Options{
		BaseURL:      settings.BaseURL,
		Timeout:      settings.Timeout,
		StrictHeader: settings.StrictHeader,
		Logger:       a.log,
	})
}

// storyTeller wires the catalog, the narrative assistant and the exporter.
func (a *app) storyTeller(ctx context.Context) (*StoryTeller, error) {
	assistant, err := NewAssistant(ctx, a.config, a.log)
	if err != nil {
		return nil, err
	}

	tmpl, err := a.config.Template()
	if err != nil {
		return nil, err
	}
	exporter, err := export.New(tmpl)
	if err != nil {
		return nil, err
	}

	return NewStoryTeller(a.catalogClient(), assistant, exporter, a.config.Settings.OutputDirectory, a.log), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗"), describeError(err))
		stop()
		os.Exit(1)
	}
}
