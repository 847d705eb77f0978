// Package cmd implements the pinctl command line interface.
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pinctl/pinctl/config"
	"github.com/pinctl/pinctl/filter"
	"github.com/pinctl/pinctl/pinapi"
)

var (
	version   = "dev"
	buildTime = "unknown"

	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *pinapi.Client

	// Command flags
	filterExpr string
	preset     string
	inputFile  string
	noConfirm  bool
)

// SetVersion sets the version information from build-time variables
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pinctl",
	Short: "A tool to manage pins on a remote pin API",
	Long: `pinctl is a CLI for a remote pin management API. It can list, create,
update and delete positioned annotation pins grouped by meta ID, look up
group metadata, and narrow results with filter expressions.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	opts := []pinapi.Option{
		pinapi.WithTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second),
		pinapi.WithExtensions(filter.Extension()),
	}

	if len(cfg.API.Headers) > 0 {
		headers := http.Header{}
		for name, value := range cfg.API.Headers {
			headers.Set(name, value)
		}
		opts = append(opts, pinapi.WithRequestHeaders(headers))
	}

	client, err = pinapi.NewClient(cfg.API.URL, cfg.API.Key, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create pin API client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when stderr is a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// getFilterExpression determines the filter expression to use, if any
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if presetExpr, ok := cfg.Filter.Presets[preset]; ok {
			return presetExpr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return cfg.Filter.DefaultExpression, nil
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config or client needed to print the version.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pinctl %s (built %s)\n", version, buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
