package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/javierhbr/test-inventory-sub000/internal/app"
	appclass "github.com/javierhbr/test-inventory-sub000/internal/application/classification"
	appreg "github.com/javierhbr/test-inventory-sub000/internal/application/registry"
	"github.com/javierhbr/test-inventory-sub000/internal/config"
	"github.com/javierhbr/test-inventory-sub000/internal/infrastructure/sqlite"
	"github.com/javierhbr/test-inventory-sub000/internal/log"
	"github.com/javierhbr/test-inventory-sub000/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// defaultConfigPath is where a commented config file is created on first run.
var defaultConfigPath = filepath.Join(".test-inventory", "config.yaml")

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config

	// Set by PersistentPreRunE, released by PersistentPostRunE.
	traceProvider = tracing.Noop()
	logCleanup    func()
)

var rootCmd = &cobra.Command{
	Use:   "test-inventory",
	Short: "Classify tests, test data and execution carts with semantic tags",
	Long: `A terminal console for the semantic tag registry of a test inventory.

Without a subcommand the registry administration console starts: rule groups
and recipe groups can be created, renamed and deleted, and their rules and
recipes edited. Changes are written back to the registry file immediately.

The tags, recipes and registry subcommands work on the same files from the
command line and print JSON.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .test-inventory/config.yaml, then ~/.config/test-inventory/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also enabled by "+log.DebugEnv+")")
	rootCmd.PersistentFlags().StringP("registry", "r", "", "path to the registry YAML file")
	rootCmd.PersistentFlags().String("db", "", "path to the classification database")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"do not reload the registry when its file changes on disk")

	bindFlags()
}

// bindFlags binds the path flags to viper so they override the config file.
func bindFlags() {
	_ = viper.BindPFlag("registry_path", rootCmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("registry_path", defaults.RegistryPath)
	viper.SetDefault("db_path", defaults.DBPath)
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("auto_reload_debounce", defaults.AutoReloadDebounce)
	viper.SetDefault("vocabulary", defaults.Vocabulary)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("ui.show_line_of_business", defaults.UI.ShowLineOfBusiness)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .test-inventory/config.yaml (current directory)
		// 2. ~/.config/test-inventory/config.yaml (user config)
		if _, err := os.Stat(defaultConfigPath); err == nil {
			viper.SetConfigFile(defaultConfigPath)
		} else {
			viper.AddConfigPath(config.ConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .test-inventory/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(defaultConfigPath); writeErr == nil {
				viper.SetConfigFile(defaultConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setup validates the configuration and starts logging and tracing.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debugFlag || log.DebugFromEnv() {
		logPath := os.Getenv("TEST_INVENTORY_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.InitWithTeaLog(logPath, "test-inventory")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		log.Info(log.CatConfig, "Starting", "command", cmd.CommandPath(), "config", viper.ConfigFileUsed())
	}

	tracingCfg := cfg.Tracing
	if tracingCfg.Exporter == "file" && tracingCfg.FilePath == "" {
		tracingCfg.FilePath = config.DefaultTracesFilePath()
	}
	tp, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		// Tracing is optional; the command still runs without it.
		log.ErrorErr(log.CatTrace, "Tracing disabled", err)
		tp = tracing.Noop()
	}
	traceProvider = tp
	return nil
}

func teardown(*cobra.Command, []string) error {
	err := traceProvider.Shutdown(context.Background())
	traceProvider = tracing.Noop()
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
	return err
}

// newRegistryService opens the registry file named by the configuration.
func newRegistryService() *appreg.RegistryService {
	return appreg.NewRegistryService(
		appreg.NewFileStore(cfg.RegistryPath),
		appreg.WithCacheTTL(cfg.Cache.TTL),
		appreg.WithTracer(traceProvider.Tracer()),
	)
}

// newTagService opens the classification database. The returned cleanup
// closes it.
func newTagService() (*appclass.TagService, func(), error) {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	regs := newRegistryService()
	svc := appclass.NewTagService(db.ClassificationRepository(), regs,
		appclass.WithVocabulary(cfg.Vocabulary),
		appclass.WithTracer(traceProvider.Tracer()),
	)
	return svc, func() {
		regs.Close()
		_ = db.Close()
	}, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	// Handle --no-auto-reload flag (negated logic)
	if noAutoReload, _ := cmd.Flags().GetBool("no-auto-reload"); noAutoReload {
		cfg.AutoReload = false
	}

	service := newRegistryService()
	defer service.Close()

	reg, err := service.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading registry %s: %w", cfg.RegistryPath, err)
	}

	model := app.New(reg, service, app.Config{
		RegistryPath:       cfg.RegistryPath,
		AutoReload:         cfg.AutoReload,
		AutoReloadDebounce: cfg.AutoReloadDebounce,
		ShowLineOfBusiness: cfg.UI.ShowLineOfBusiness,
		MarkdownStyle:      cfg.UI.MarkdownStyle,
		Debug:              log.Enabled(),
	})
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	if cleanupErr := teardown(nil, nil); err == nil {
		err = cleanupErr
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
