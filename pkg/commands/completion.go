package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/nav"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(medview completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(medview completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletionV2(cmd.OutOrStdout(), true)
		},
	}

	topLevel.AddCommand(cmd)
}

// pathCompletions offers the route of every nav node.
func pathCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	v, err := boot(cmd, 0)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var paths []string
	v.Tree.Walk(func(n *nav.Node, _ int) bool {
		paths = append(paths, n.Route.String())
		return true
	})
	return paths, cobra.ShellCompDirectiveNoFileComp
}
