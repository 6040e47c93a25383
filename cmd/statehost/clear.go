package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"statehost/internal/ui"
)

func newClearCmd(rt *runtime) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear [KEY]",
		Short: "Delete a saved bundle (default: the TUI session)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			keys := []string{ui.SessionKey}
			if len(args) == 1 {
				keys = args
			}
			if all {
				var err error
				if keys, err = rt.store.Keys(ctx); err != nil {
					return err
				}
			}
			for _, k := range keys {
				if err := rt.store.Delete(ctx, k); err != nil {
					return err
				}
				rt.log.Debug().Str("key", k).Msg("bundle deleted")
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", k)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Delete every saved bundle")
	return cmd
}
