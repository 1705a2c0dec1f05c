package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lukrum/fxmodels/config"
	"github.com/lukrum/fxmodels/modelsapi"
)

var (
	cfgFile string
	baseURL string
	apiKey  string

	cfg    *config.Config
	logger zerolog.Logger
	client *modelsapi.Client

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fxmodels",
	Short: "CLI for the Lukrum FX Models API",
	Long: `fxmodels is a CLI for the Lukrum FX Models API. It manages trading
models, their observations and properties, and inspects trade history and
server-side statistics.`,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: teardownApp,
	SilenceUsage:      true,
}

// SetVersion records build information injected by the linker
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
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
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "override the API base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "override the API key")

	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(observationsCmd)
	rootCmd.AddCommand(propertiesCmd)
	rootCmd.AddCommand(propertyTypesCmd)
	rootCmd.AddCommand(tradesCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// version and update need no config or client
	switch cmd.Name() {
	case "version", "update":
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if apiKey != "" {
		cfg.API.Key = apiKey
	}

	logger = setupLogger(cfg.Logging)

	client, err = modelsapi.NewClient(cfg.API.BaseURL, cfg.API.Key, logger,
		modelsapi.WithTimeout(time.Duration(cfg.API.Timeout)*time.Second))
	if err != nil {
		return fmt.Errorf("failed to create Models API client: %w", err)
	}

	return nil
}

// teardownApp releases the API client's connections
func teardownApp(cmd *cobra.Command, args []string) {
	if client != nil {
		client.Close()
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd verifies connectivity and the API key
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to the Models API",
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to %s...\n", cfg.API.BaseURL)

	ctx := cmd.Context()
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	fmt.Println("✓ Connection successful!")

	models, err := client.GetModels(ctx, modelsapi.ModelFilter{})
	if err != nil {
		return fmt.Errorf("failed to get models: %w", err)
	}

	propertyTypes, err := client.GetPropertyTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to get property types: %w", err)
	}

	fmt.Printf("\nModels API summary:\n")
	fmt.Printf("- Total models: %d\n", len(models))
	fmt.Printf("- Property types: %d\n", len(propertyTypes))

	return nil
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fxmodels %s (built %s)\n", version, buildTime)
	},
}
