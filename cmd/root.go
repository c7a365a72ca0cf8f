package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/frostline/holidayquest/internal/config"
	"github.com/frostline/holidayquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "holidayquest",
	Short:         "Seasonal quest of six mini-games for the team",
	Long:          "holidayquest serves a gated sequence of six holiday mini-games, a photo gallery and a wish wall.",
	SilenceErrors: true,
	SilenceUsage:  true,
	Version:       version,
}

func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"db":       "database.dsn",
	"driver":   "database.driver",
	"verbose":  "verbose",
	"bind":     "server.bind",
	"port":     "server.port",
	"prefix":   "server.prefix",
	"tls-cert": "server.tls_cert",
	"tls-key":  "server.tls_key",
}

func init() {
	fs := rootCmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringP("config", "c", "", "path to a YAML config file (env: HOLIDAYQUEST_CONFIG)")
	fs.String("env-file", ".env", "dotenv file to load before reading the environment")
	fs.String("db", "", "database DSN; a file path for sqlite (env: HOLIDAYQUEST_DATABASE_DSN)")
	fs.String("driver", "sqlite", "database driver, sqlite or postgres (env: HOLIDAYQUEST_DATABASE_DRIVER)")
	fs.BoolP("verbose", "v", false, "log debug output (env: HOLIDAYQUEST_VERBOSE)")

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetVersionTemplate("holidayquest v{{.Version}}\n")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env, the optional YAML file and the environment, then
// applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}

	file, _ := cmd.Flags().GetString("config")
	if file == "" {
		file = os.Getenv(config.EnvPrefix + "_CONFIG")
	}
	v, err := config.New(file)
	if err != nil {
		return config.Config{}, err
	}
	bindFlags(v, cmd.Flags())
	return config.Load(v)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return
		}
		_ = v.BindPFlag(key, f)
	})
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore connects to the configured database. An empty sqlite DSN uses
// the per-user data directory.
func openStore(ctx context.Context, cfg config.DatabaseConfig, skipMigrations bool) (*store.Store, error) {
	dsn := cfg.DSN
	if cfg.Driver == "sqlite" {
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			dsn = p
		} else if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := store.EnsureDir(dsn); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
	}
	return store.Open(ctx, store.Options{Driver: cfg.Driver, DSN: dsn, SkipMigrations: skipMigrations})
}

// setup loads configuration, builds the logger and opens the store.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, nil, err
	}
	logger := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	s, err := openStore(cmd.Context(), cfg.Database, false)
	if err != nil {
		return cfg, logger, nil, err
	}
	return cfg, logger, s, nil
}
