package main

import (
	"github.com/spf13/cobra"

	"github.com/gnana997/brandkit/pkg/kit"
	mcpserver "github.com/gnana997/brandkit/pkg/mcp"
	"github.com/gnana997/brandkit/pkg/mcplog"
	"github.com/gnana997/brandkit/pkg/metrics"
	"github.com/gnana997/brandkit/pkg/server"
	"github.com/gnana997/brandkit/pkg/watch"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			cfg.Addr = resolveListenAddr(listen, cmd.Flags().Changed("listen"), a.cfg)

			m := metrics.New()
			svc, closeFn := a.newService(m)
			defer func() { _ = closeFn() }()

			return server.New(cfg, svc, m, a.log).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default: $PORT or server.addr, :3000)")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	var logPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("log-file") {
				a.cfg.MCP.LogPath = logPath
			}
			callLog, err := mcplog.Open(a.cfg.MCP.LogPath)
			if err != nil {
				return err
			}
			defer callLog.Close()

			svc, closeFn := a.newService(nil)
			defer func() { _ = closeFn() }()

			return mcpserver.NewServer(svc, callLog).ServeStdio()
		},
	}

	cmd.Flags().StringVar(&logPath, "log-file", "", "Append one JSON line per tool call to this file")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var initial bool

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rebuild kits whenever raw captures change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			w, err := watch.New(kit.NewAssembler(a.cfg.Policy), watch.Options{
				Debounce:     a.cfg.Watch.Debounce,
				Discover:     a.cfg.Watch.Files,
				InitialBuild: initial,
				Workers:      a.cfg.Watch.Workers,
			}, a.log)
			if err != nil {
				return err
			}
			return w.Run(cmd.Context(), root)
		},
	}

	cmd.Flags().BoolVar(&initial, "initial", true, "Build every existing raw file before watching")
	return cmd
}
