package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/commands/options"
	"tableflip.dev/medview/pkg/runner/reports"
	"tableflip.dev/medview/pkg/timeutil"
)

func addReports(topLevel *cobra.Command) {
	var since string

	cmd := &cobra.Command{
		Use:   "reports [category] [subcategory]",
		Short: "List reports newest first.",
		Example: `
medview reports
medview reports imaging ct
medview reports --since 6mo
`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			var window time.Duration
			if since != "" {
				d, _, err := timeutil.ParseWindow(since)
				if err != nil {
					return oo.HandleError(fmt.Errorf("--since: %w", err))
				}
				window = d
			}
			v, err := boot(cmd, 0)
			if err != nil {
				return oo.HandleError(err)
			}
			r := reports.Reports{
				Viewer:  v,
				Since:   window,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
				NoColor: oo.Plain(cmd.OutOrStdout()),
			}
			if len(args) > 0 {
				r.Category = args[0]
			}
			if len(args) > 1 {
				r.Subcategory = args[1]
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "only reports dated within this window, e.g. 6mo, 2y, 1y6mo")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
