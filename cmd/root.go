package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	cfgpkg "github.com/KaramelBytes/samarth/internal/config"
	"github.com/KaramelBytes/samarth/internal/observability"
	"github.com/KaramelBytes/samarth/internal/snapshot"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Dataset flags (override config if set)
	flagRainfall  string
	flagCrops     string
	flagDelimiter string

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger is rebuilt from cfg on every invocation
	logger *logrus.Logger
	// store is created on first use so commands that never touch the data
	// (config, help) do not read it.
	store *snapshot.Store
	// onLoad, when set, observes the snapshot load (serve wires metrics here).
	onLoad func(*snapshot.Snapshot, time.Duration, error)
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	errMark  = color.New(color.FgRed).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "samarth",
	Short: "Samarth: crop production and rainfall insights",
	Long: `Samarth joins the Ministry of Agriculture crop production table with the IMD
area-weighted rainfall record. It lists crops, shows a crop's headline figures,
averages rainfall per year, charts it, exports workbooks and serves a dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errMark("✗ Error:"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.samarth/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagRainfall, "rainfall", "", "rainfall dataset path, .csv/.tsv/.xlsx (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagCrops, "crops", "", "crop production dataset path, .csv/.tsv/.xlsx (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "field delimiter for text inputs: ',' | ';' | 'tab' (overrides config)")
}

func loadConfig() {
	store = nil
	onLoad = nil
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need data report the missing config themselves
		fmt.Fprintf(os.Stderr, "%s failed to load config: %v\n", warnMark("⚠ Warning:"), err)
		cfg = nil
		logger = observability.NewLogger("warn", "text", os.Stderr)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("rainfall") && flagRainfall != "" {
		cfg.RainfallPath = flagRainfall
	}
	if f.Changed("crops") && flagCrops != "" {
		cfg.CropsPath = flagCrops
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = observability.NewLogger(level, cfg.LogFormat, os.Stderr)
}

// dataStore returns the process-wide snapshot store, creating it from the
// effective configuration on first use.
func dataStore() (*snapshot.Store, error) {
	if store != nil {
		return store, nil
	}
	if cfg == nil {
		return nil, errors.New("no configuration loaded")
	}
	src, err := cfg.Sources()
	if err != nil {
		return nil, err
	}
	store = snapshot.NewStore(snapshot.Options{
		Sources:     src,
		CropRenames: cfg.CropRenames,
		Logger:      logger,
		OnLoad:      onLoad,
	})
	return store, nil
}

// loadSnapshot loads (or returns the already loaded) datasets.
func loadSnapshot() (*snapshot.Snapshot, error) {
	st, err := dataStore()
	if err != nil {
		return nil, err
	}
	return st.Get()
}

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", okMark("✓"), fmt.Sprintf(format, args...))
}
