package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotter"
	"github.com/aretw0/jotter/pkg/core"
)

func newThemeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(core.ThemeLight), string(core.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := svc.SetTheme(cmd.Context(), core.Theme(args[0])); err != nil {
					return err
				}
			}
			theme, err := svc.Theme(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		},
	}
}

// statusReport is printed by `jotter status`.
type statusReport struct {
	Version string           `json:"version"`
	DataDir string           `json:"data_dir"`
	Adapter string           `json:"adapter"`
	User    *core.PublicUser `json:"user,omitempty"`
	Service any              `json:"service"`
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, session and store state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			report := statusReport{
				Version: strings.TrimSpace(jotter.Version),
				DataDir: c.cfg.DataDir,
				Adapter: c.cfg.Adapter,
				Service: svc.State(),
			}
			u, ok, err := svc.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if ok {
				report.User = &u
			}
			return printJSON(cmd, report)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of jotter",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jotter version %s\n", strings.TrimSpace(jotter.Version))
		},
	}
}
