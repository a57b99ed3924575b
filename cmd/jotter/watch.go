package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotter/pkg/kv"
)

func newWatchCmd(c *cli) *cobra.Command {
	var keys []string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes made to the store by other processes",
		Long: `Watch the JSON store file and print one line per top-level key
(users, notes, currentUser, theme) changed by another writer. Use --key to
follow only some of them. Stops on Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			fs, ok := svc.Store().(*kv.FileStore)
			if !ok {
				return errors.New("watch requires the json adapter")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchStore(ctx, cmd, fs, keys...)
		},
	}
	cmd.Flags().StringArrayVar(&keys, "key", nil, "Only report changes to this key (repeatable)")
	return cmd
}

func watchStore(ctx context.Context, cmd *cobra.Command, fs *kv.FileStore, keys ...string) error {
	events, err := fs.Watch(ctx)
	if err != nil {
		return err
	}
	src := kv.NewSource(events, kv.WithKeys(keys...))
	if err := src.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", fs.Path())
	for e := range src.Events() {
		fmt.Fprintln(cmd.OutOrStdout(), e.String())
	}
	return nil
}
