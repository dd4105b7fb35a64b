package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/runner/tree"
)

func addTree(topLevel *cobra.Command) {
	all := false
	legend := false
	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print the navigation tree as it looks at a location.",
		Example: `
medview tree
medview tree '#archive/R42'
medview tree --all
medview tree --legend
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: pathCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			v, err := boot(cmd, 0)
			if err != nil {
				return err
			}
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			t := tree.Tree{
				Viewer:  v,
				Path:    path,
				All:     all,
				Legend:  legend,
				Out:     cmd.OutOrStdout(),
				NoColor: oo.Plain(cmd.OutOrStdout()),
			}
			return t.Do(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show every node, not only the open branches.")
	cmd.Flags().BoolVar(&legend, "legend", false, "Explain the row markers after the tree.")
	topLevel.AddCommand(cmd)
}
