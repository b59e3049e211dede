package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"exegesis/internal/config"
	"exegesis/internal/logging"
)

var (
	// Global flags
	verbose bool
	cfgPath string
	timeout time.Duration

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "exegesis",
	Short: "Exegesis - structured Bible study generator",
	Long: `Exegesis turns a Bible reference into a structured exegetical study:
base text, literary and historical context, parallels, lexical analysis of
the original terms, interpretive traditions, applications, an optional
expository sermon and a slide outline.

Studies are generated by Gemini and can be exported as Markdown, Word,
HTML, PDF, PowerPoint or JSON.

Set GEMINI_API_KEY (or API_KEY / GOOGLE_API_KEY) before generating.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if timeout > 0 {
			loaded.LLM.Timeout = timeout.String()
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", path, err)
		}
		cfg = loaded

		if err := logging.Initialize(cfg.Logging.Options(verbose)); err != nil {
			return err
		}
		logging.Boot("config loaded from %s (model=%s history=%s)", path, cfg.LLM.Model, cfg.History.Backend)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default ~/.exegesis/config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Generation timeout, retries included (default from config)")

	rootCmd.AddCommand(
		studyCmd,
		openCmd,
		shareCmd,
		historyCmd,
		serveCmd,
		viewCmd,
		configCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
