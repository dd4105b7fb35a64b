package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/commands/options"
	"tableflip.dev/medview/pkg/runner/render"
)

func addRender(topLevel *cobra.Command) {
	width := 80
	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Route once and print what the location shows.",
		Example: `
medview render '#imaging/ct/R1'
medview render bloodwork --json
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: pathCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if oo.JSON {
				width = 0
			}
			v, err := boot(cmd, width)
			if err != nil {
				return oo.HandleError(err)
			}
			r := render.Render{
				Viewer:  v,
				Path:    args[0],
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
				NoColor: oo.Plain(cmd.OutOrStdout()),
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	cmd.Flags().IntVarP(&width, "width", "w", width, "Wrap width for the rendered pane; 0 disables wrapping.")
	topLevel.AddCommand(cmd)
}
