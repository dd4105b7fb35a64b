package main

import (
	"errors"

	"github.com/spf13/cobra"

	tuiapp "tableflip.dev/medview/pkg/tui/app"
)

func newErrorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "error",
		Short: "Show the startup error page for a failed boot",
		Long: "Boots the viewer and shows the startup error page for whatever went wrong.\n" +
			"Point --data at a missing directory to see the data hint.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, cleanup, err := bootViewer(cmd.Context(), *opts)
			if err == nil {
				cleanup()
				return run(cmd.Context(), tuiapp.NewError(errNoFailure))
			}
			return run(cmd.Context(), tuiapp.NewError(err))
		},
	}
}

var errNoFailure = errors.New("boot succeeded; pass --data with a bad location to see a real failure")
