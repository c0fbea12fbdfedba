package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aktagon/folktale-teller/internal/narrative"
	"github.com/aktagon/folktale-teller/internal/server"
)

var (
	compactList bool
	servePort   int
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "List the folktales on one catalog page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		settings := a.config.Settings.Catalog
		stories, err := a.catalogClient().FetchStories(cmd.Context(), settings.PageNo, settings.NumOfRows)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if compactList {
			renderStoryList(out, stories)
			return nil
		}
		for i, story := range stories {
			fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("#%d", i+1)))
			renderStory(out, story)
		}
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <title|number>",
	Short: "Summarize one folktale for children",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		teller, err := a.storyTeller(cmd.Context())
		if err != nil {
			return err
		}

		settings := a.config.Settings.Catalog
		session, err := teller.LoadSession(cmd.Context(), settings.PageNo, settings.NumOfRows)
		if err != nil {
			return err
		}
		story, err := session.Select(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderStory(out, *story)

		if err := teller.Summarize(cmd.Context(), session); err != nil {
			return errors.New(narrative.SummaryText("", err))
		}
		renderSummary(out, session.Artifact.Summary)
		return nil
	},
}

var illustrateCmd = &cobra.Command{
	Use:   "illustrate <title|number>",
	Short: "Summarize a folktale and draw an illustration from the summary",
	Long: `Summarizes the folktale, turns the summary into an image prompt and
generates an illustration. The image is saved as <title>_ai_image.png next to
a markdown story card.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		if a.config.Credentials.GeminiAPIKey == "" {
			return errors.New("Gemini API key required for illustrations: use --gemini-key flag or GEMINI_API_KEY environment variable")
		}

		teller, err := a.storyTeller(cmd.Context())
		if err != nil {
			return err
		}

		settings := a.config.Settings.Catalog
		session, err := teller.LoadSession(cmd.Context(), settings.PageNo, settings.NumOfRows)
		if err != nil {
			return err
		}
		story, err := session.Select(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderStory(out, *story)

		if err := teller.Summarize(cmd.Context(), session); err != nil {
			return errors.New(narrative.SummaryText("", err))
		}
		renderSummary(out, session.Artifact.Summary)

		if err := teller.Illustrate(cmd.Context(), session); err != nil {
			return fmt.Errorf("illustration failed: %w", err)
		}
		if session.Artifact.PromptFallback {
			fmt.Fprintln(out, warningStyle.Render("⚠ Prompt generation failed, using the generic prompt"))
		}
		fmt.Fprintln(out, sectionStyle.Render("Image prompt"))
		fmt.Fprintln(out, session.Artifact.ImagePrompt)
		fmt.Fprintln(out)

		saved, err := teller.Save(session)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, successStyle.Render("✓ Illustration saved:"), saved.ImagePath)
		fmt.Fprintln(out, successStyle.Render("✓ Story card saved:"), saved.CardPath)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the folktale HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()

		assistant, err := NewAssistant(cmd.Context(), a.config, a.log)
		if err != nil {
			return err
		}

		settings := a.config.Settings
		if servePort > 0 {
			settings.Server.Port = servePort
		}
		if a.config.Credentials.CatalogAPIKey == "" {
			a.log.Warn("No catalog API key configured; story listing will fail")
		}

		handler := server.NewHandler(a.catalogClient(), assistant, settings.Catalog.PageNo, settings.Catalog.NumOfRows)
		srv := server.NewServer(&server.Config{
			Port:         settings.Server.Port,
			ReadTimeout:  settings.Server.ReadTimeout,
			WriteTimeout: settings.Server.WriteTimeout,
			Debug:        debugMode,
		}, a.log, handler.Routes)

		return srv.RunWithGracefulShutdown(cmd.Context())
	},
}

func init() {
	storiesCmd.Flags().BoolVar(&compactList, "compact", false, "Print a table instead of story cards")
	illustrateCmd.Flags().StringVar(&outputDir, "out", "", "Directory for the image and story card")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on")
}
