package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/hivetox-cli/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	dataDir string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Logger built before every command; no-op until then
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "hivetox",
	Short: "hivetox: reshape apiary monitoring spreadsheets into feature and target tables",
	Long: `hivetox reads pesticide and heavy-metal measurements, hive-to-polygon distances,
land-cover surfaces and regulatory limits from a data directory and builds two
tables aligned by site: features (distance and surface per land-cover class) and
to_predict (worst-case level, above_LMR and present flags per substance, category
and family).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.hivetox/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report it themselves
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	applyOverrides(cfg)
}

// applyOverrides copies explicitly set global flags onto the configuration.
func applyOverrides(c *cfgpkg.Global) {
	if rootCmd.PersistentFlags().Changed("data-dir") && dataDir != "" {
		c.DataDir = dataDir
	}
}

// requireConfig returns the loaded configuration or the error that prevented loading it.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	applyOverrides(cfg)
	return cfg, nil
}

// newLogger writes console-encoded logs to stderr so stdout stays reserved for tables.
func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.Sampling = nil
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zc.Development = true
	}
	return zc.Build()
}
