package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/brandkit/pkg/metrics"
	"github.com/gnana997/brandkit/pkg/sampler"
	"github.com/gnana997/brandkit/pkg/service"
	"github.com/gnana997/brandkit/pkg/util"
)

const version = "0.1.0-dev"

// app carries what every subcommand needs once flags and config are
// resolved.
type app struct {
	cfg *ProjectConfig
	log *slog.Logger

	// newSampler builds the page sampler. Replaceable for testing.
	newSampler func(cfg sampler.Config, log *slog.Logger) (sampler.Sampler, func() error)

	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(&app{newSampler: newBrowserSampler}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "brandkit",
		Short: "Infer a design kit from a live web page",
		Long: "brandkit renders a page in headless Chrome, in light and dark mode, and infers\n" +
			"its palette, typography, UI tokens and component styles.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "Config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(
		newExtractCmd(a),
		newAssembleCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newWatchCmd(a),
		newContrastCmd(a),
		newSetupCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the config file and applies explicitly set global flags.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfg, err := loadProjectConfig(a.configPath, flags.Changed("config"))
	if err != nil {
		return err
	}

	if flags.Changed("log-level") {
		cfg.Log.Level = util.LogLevel(a.logLevel)
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = util.LogFormat(a.logFormat)
	}
	if err := cfg.Log.Validate(); err != nil {
		return err
	}
	cfg.Log.Output = cmd.ErrOrStderr()

	a.cfg = cfg
	a.log = util.NewLogger(cfg.Log)
	util.SetDefault(a.log)
	return nil
}

// newService wires the sampler, cache and policy from the config. The
// returned func releases the browser.
func (a *app) newService(m *metrics.Metrics) (*service.Service, func() error) {
	s, closeFn := a.newSampler(a.cfg.Sampler, a.log)
	svc := service.New(s, service.Options{
		Policy:  a.cfg.Policy,
		Cache:   a.cfg.Cache,
		Metrics: m,
		Logger:  a.log,
	})
	return svc, closeFn
}

// newBrowserSampler launches (or connects to) Chrome lazily on first use.
func newBrowserSampler(cfg sampler.Config, log *slog.Logger) (sampler.Sampler, func() error) {
	mgr := sampler.NewManager(cfg.RemoteURL, log)
	return sampler.NewRodSampler(cfg, mgr, log), mgr.Close
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "brandkit %s\n", version)
			return err
		},
	}
}

// writeOutput writes s to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path, s string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(w, s+"\n")
		return err
	}
	return os.WriteFile(path, []byte(s+"\n"), 0o644)
}
