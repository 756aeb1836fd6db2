package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/careconnect-ai/careconnect/internal/app"
	"github.com/careconnect-ai/careconnect/internal/auth"
	"github.com/careconnect-ai/careconnect/internal/catalog"
	"github.com/careconnect-ai/careconnect/internal/config"
	"github.com/careconnect-ai/careconnect/internal/logging"
	"github.com/careconnect-ai/careconnect/internal/store"
	"github.com/careconnect-ai/careconnect/internal/wizard"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "careconnect",
	Short:        "Connect a loved one's wearable",
	Long:         "CareConnect: set up a family member's smartwatch or fitness tracker and keep an eye on their wellbeing.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to YAML config file (overrides CARECONNECT_CONFIG env var)")
	pf.String("env-file", "", "Path to a dotenv file (default .env)")
	pf.String("db", "", "Path to SQLite database file (overrides CARECONNECT_DB env var)")
	pf.String("catalog", "", "Path to a JSON device catalog (default built-in sample devices)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().Bool("skip-splash", false, "Start on the dashboard instead of the welcome screen")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(resetCmd)
}

// loadConfig resolves the configuration and applies flag overrides, which
// take precedence over the file and the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(config.LoadOptions{ConfigPath: configPath, EnvFile: envFile})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.Log.Level = l
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCatalog returns the device catalog named by the config, or the
// built-in sample devices.
func loadCatalog(cfg *config.Config) (catalog.Lookup, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.CatalogPath)
}

func wizardConfig(cfg *config.Config) wizard.Config {
	return wizard.Config{
		DiscoveryDelay: cfg.Wizard.DiscoveryDelay,
		ConnectDelay:   cfg.Wizard.ConnectDelay,
	}
}

// runtime bundles the resources a command opens.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	closeLog func() error
}

// openRuntime loads config, starts logging and opens the database.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("start logging: %w", err)
	}
	if err := store.EnsureDir(cfg.DBPath); err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}
	if n, err := st.SessionRepo().DeleteExpired(cmd.Context(), time.Now()); err != nil {
		logger.Warn("prune sessions", "error", err)
	} else if n > 0 {
		logger.Debug("pruned expired sessions", "count", n)
	}
	return &runtime{cfg: cfg, logger: logger, store: st, closeLog: closeLog}, nil
}

func (r *runtime) Close() error {
	err := r.store.Close()
	if cerr := r.closeLog(); err == nil {
		err = cerr
	}
	return err
}

// authService builds the sign-in service backed by the store and token file.
func (r *runtime) authService() *auth.Service {
	return auth.NewService(r.store.UserRepo(), r.store.SessionRepo(),
		auth.Config{
			SessionTTL:  r.cfg.Auth.SessionTTL,
			SignInBurst: r.cfg.Auth.SignInBurst,
			SignInEvery: r.cfg.Auth.SignInEvery,
		},
		auth.WithTokenStore(auth.FileTokenStore{Path: r.cfg.TokenPath}),
		auth.WithLogger(r.logger),
	)
}

func runApp(cmd *cobra.Command) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	lookup, err := loadCatalog(rt.cfg)
	if err != nil {
		return err
	}
	skip, _ := cmd.Flags().GetBool("skip-splash")

	rt.logger.Info("starting", "db", rt.cfg.DBPath, "version", resolveVersion())
	return app.Run(app.Options{
		Session:      rt.authService(),
		Machine:      wizard.NewMachine(lookup, nil),
		WizardConfig: wizardConfig(rt.cfg),
		Logger:       rt.logger,
		SkipSplash:   skip,
	})
}
