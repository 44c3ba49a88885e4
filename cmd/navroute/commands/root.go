// Package commands implements the navroute command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/pdrpinto/hpastar/internal/config"
	"github.com/pdrpinto/hpastar/world"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	v       = viper.New()

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF99"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))
)

var rootCmd = &cobra.Command{
	Use:   "navroute",
	Short: "Hierarchical route planner over grid scenes",
	Long: `navroute bakes the navigation graphs of a YAML scene and answers
route queries across its grids.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(v)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml)")
	flags.String("scene", "", "scene file")
	flags.Int("expansion-limit", config.Default().ExpansionLimit, "node expansions per search")
	flags.Bool("best-effort", false, "return partial local paths")
	flags.Int("workers", 0, "concurrent region searches (0 = one per CPU)")
	flags.Uint64("seed", 0, "connector choice seed (0 = random)")
	flags.Int("route-cache-size", config.Default().RouteCacheSize, "route cache entries per grid")
	flags.String("log-level", config.Default().LogLevel, "debug, info, warn or error")
	flags.Bool("trace", false, "print spans to stderr")

	for key, flag := range map[string]string{
		"scene":            "scene",
		"expansion_limit":  "expansion-limit",
		"best_effort":      "best-effort",
		"workers":          "workers",
		"seed":             "seed",
		"route_cache_size": "route-cache-size",
		"log_level":        "log-level",
		"trace":            "trace",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(bakeCmd, routeCmd)
}

func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
	}
}

// session is what every subcommand starts from.
type session struct {
	config   config.Config
	logger   *zap.Logger
	scene    *world.Scene
	island   *world.Island
	shutdown func(context.Context) error
}

func (s *session) close(ctx context.Context) {
	_ = s.logger.Sync()
	if s.shutdown != nil {
		if err := s.shutdown(ctx); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("trace shutdown: ")+err.Error())
		}
	}
}

// open loads the configuration and the scene and builds an unbaked island.
func open(ctx context.Context) (*session, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if cfg.Scene == "" {
		return nil, errors.New("no scene given, use --scene or NAVROUTE_SCENE")
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s := &session{config: cfg, logger: logger}
	if cfg.Trace {
		shutdown, err := initTracing(ctx, os.Stderr)
		if err != nil {
			return nil, err
		}
		s.shutdown = shutdown
	}

	file, err := os.Open(cfg.Scene)
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer file.Close()
	s.scene, err = world.LoadScene(file)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.island, err = s.scene.Build(world.IslandConfig{
		Logger:         logger,
		RouteCacheSize: cfg.RouteCacheSize,
		SearchOptions:  cfg.SearchOptions(),
	})
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	return s, nil
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if parsed == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
