package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotter"
	"github.com/aretw0/jotter/internal/config"
	"github.com/aretw0/jotter/internal/logging"
	"github.com/aretw0/jotter/pkg/app"
	"github.com/aretw0/jotter/pkg/core"
)

// cli carries the state shared by every command of one invocation.
type cli struct {
	verbose    bool
	dataDir    string
	adapter    string
	configFile string

	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer
	svc       *app.Service
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jotter",
		Short: "A local note store with users, tags and search",
		Long: `jotter keeps notes for several local users in a single JSON file or
SQLite database. Sign in once and every command works on your notes only.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&c.dataDir, "data", "", "Data directory (overrides config)")
	flags.StringVar(&c.adapter, "adapter", "", "Storage adapter: json or sqlite (overrides config)")
	flags.StringVar(&c.configFile, "config", "", "Path to a YAML config file")

	root.AddCommand(
		newRegisterCmd(c),
		newLoginCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newListCmd(c),
		newReadCmd(c),
		newWriteCmd(c),
		newDeleteCmd(c),
		newSearchCmd(c),
		newTagsCmd(c),
		newThemeCmd(c),
		newStatusCmd(c),
		newWatchCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = c.dataDir
	}
	if cmd.Flags().Changed("adapter") {
		cfg.Adapter = c.adapter
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	level, _ := cfg.Level()
	logger, closer, err := logging.New(logging.Options{
		Level:  level,
		File:   cfg.LogFile,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	c.logger = logger
	c.logCloser = closer
	slog.SetDefault(logger)
	return nil
}

func (c *cli) teardown() error {
	var errs []error
	if c.svc != nil {
		errs = append(errs, c.svc.Close())
		c.svc = nil
	}
	if c.logCloser != nil {
		errs = append(errs, c.logCloser.Close())
		c.logCloser = nil
	}
	return errors.Join(errs...)
}

// service opens the configured store on first use.
func (c *cli) service() (*app.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	svc, err := jotter.New(c.cfg.DataDir,
		jotter.WithAdapter(c.cfg.Adapter),
		jotter.WithLogger(c.logger),
		jotter.WithIterations(c.cfg.KDFIterations),
	)
	if err != nil {
		return nil, err
	}
	c.svc = svc
	return svc, nil
}

// signedIn opens the service and returns the current user.
func (c *cli) signedIn(cmd *cobra.Command) (*app.Service, core.PublicUser, error) {
	svc, err := c.service()
	if err != nil {
		return nil, core.PublicUser{}, err
	}
	u, err := svc.RequireUser(cmd.Context())
	if err != nil {
		return nil, core.PublicUser{}, err
	}
	return svc, u, nil
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string) int {
	return run(&cli{}, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(c *cli, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cerr := c.teardown(); err == nil {
		err = cerr
	}
	if err == nil {
		return 0
	}

	res := app.ResultOf(err)
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		fmt.Fprintln(stderr, "Error: not logged in (run `jotter login <identifier>`)")
	case res.Error.Code == app.CodeInternal:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	default:
		fmt.Fprintf(stderr, "Error [%s]: %v\n", res.Error.Code, err)
	}
	return 1
}
