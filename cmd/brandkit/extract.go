package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/brandkit/pkg/a11y"
	"github.com/gnana997/brandkit/pkg/export"
	"github.com/gnana997/brandkit/pkg/sample"
	"github.com/gnana997/brandkit/pkg/sampler"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		format string
		mode   string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract the design kit of a page",
		Long: "Render the page in light and dark mode and print its kit.\n\n" +
			"Formats: json (the kit), css (custom properties), tailwind (config snippet),\n" +
			"bundle (both variants, as downloaded from the results page) and colors\n" +
			"(one \"Label: #HEX\" line per core color).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			m, err := parseMode(mode)
			if err != nil {
				return err
			}

			svc, closeFn := a.newService(nil)
			defer func() { _ = closeFn() }()

			res, err := svc.Extract(cmd.Context(), args[0])
			if err != nil {
				d := sampler.Explain(err)
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\n%s\n", d.Title, d.Message)
				if d.Hint != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Hint: %s\n", d.Hint)
				}
				return fmt.Errorf("%s: %w", d.Code, err)
			}

			rendered, err := export.Render(res.Variants, m, f)
			if err != nil {
				return err
			}
			if out == "" && f == export.FormatBundle {
				out = export.BundleFileName(res.Kit().Meta.Host)
			}
			if err := writeOutput(cmd.OutOrStdout(), out, rendered); err != nil {
				return err
			}

			a.log.Info("extracted",
				"url", res.Kit().Meta.URL,
				"dark_mode", res.Variants.DarkModeDetected,
				"ms", res.Ms)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, css, tailwind, bundle or colors")
	cmd.Flags().StringVarP(&mode, "mode", "m", "light", "Variant to print: light or dark")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to file instead of stdout (bundle defaults to brandkit-<host>.json; \"-\" forces stdout)")
	return cmd
}

func newContrastCmd(a *app) *cobra.Command {
	var large bool

	cmd := &cobra.Command{
		Use:   "contrast <foreground> <background>",
		Short: "Score the WCAG contrast of two colors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a11y.Check(args[0], args[1], large)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s on %s  %s  AA %s  AAA %s\n",
				res.Foreground, res.Background, res.Label(), passFail(res.AA), passFail(res.AAA))
			return err
		},
	}

	cmd.Flags().BoolVar(&large, "large", false, "Use large-text thresholds (AA 3.0, AAA 4.5)")
	return cmd
}

func parseMode(s string) (sample.ColorScheme, error) {
	switch m := sample.ColorScheme(strings.ToLower(strings.TrimSpace(s))); m {
	case "", sample.SchemeLight:
		return sample.SchemeLight, nil
	case sample.SchemeDark:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want light or dark)", s)
}

func passFail(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}
