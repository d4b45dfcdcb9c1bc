package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/brandkit/pkg/kit"
	"github.com/gnana997/brandkit/pkg/rawfile"
)

func newAssembleCmd(a *app) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "assemble <path-or-glob>...",
		Short: "Assemble kits from captured raw extraction files",
		Long: "Build a kit for every raw capture (*.raw.json) without opening a browser.\n" +
			"Directories are searched recursively; each kit is written next to its\n" +
			"source as <name>.kit.json.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := rawfile.Expand(args, a.cfg.Watch.Files)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no raw files found")
			}

			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Watch.Workers
			}
			b := rawfile.NewBuilder(kit.NewAssembler(a.cfg.Policy), workers, a.log)
			a.log.Info("assembling kits", "files", len(files), "workers", b.Workers())

			w := cmd.OutOrStdout()
			for _, res := range b.BuildAll(cmd.Context(), files) {
				if res.Err != nil {
					fmt.Fprintf(w, "failed  %s: %v\n", res.Source, res.Err)
					continue
				}
				fmt.Fprintf(w, "wrote   %s\n", res.Output)
			}

			stats := b.Stats()
			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", stats.Failed, stats.Submitted)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent builds (0 = based on CPU count)")
	return cmd
}
