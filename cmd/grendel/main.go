// Command grendel runs an interactive SQL shell over an in-memory database,
// loading a snapshot on start and writing one back on exit.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config holds the resolved settings for one run.
type Config struct {
	DataDir  string `koanf:"data_dir"`
	Format   string `koanf:"format"`
	LogLevel string `koanf:"log_level"`
}

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          "grendel",
		Short:        "Interactive SQL shell over an in-memory relational engine",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			return runShell(cfg, logger)
		},
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default grendel.yaml)")
	rootCmd.Flags().String("data-dir", "", "directory for snapshots")
	rootCmd.Flags().String("format", "", "snapshot format: json or parquet")
	rootCmd.Flags().String("log-level", "", "log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves settings in priority order: defaults, then config
// file, then GRENDEL_ environment variables, then flags.
func loadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"data_dir":  "data",
		"format":    "json",
		"log_level": "info",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		for _, name := range []string{"grendel.yaml", "grendel.yml"} {
			if _, err := os.Stat(name); err == nil {
				cfgFile = name
				break
			}
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider("GRENDEL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GRENDEL_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Format != "json" && cfg.Format != "parquet" {
		return nil, fmt.Errorf("unsupported snapshot format: %s", cfg.Format)
	}
	return &cfg, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %s", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
