package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/sample"
	"tableflip.dev/medview/pkg/store"
)

func addSample(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "sample <dir>",
		Short: "Write a small fictional catalog to a directory.",
		Example: `
medview sample ./data
medview --data ./data ui
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			names, err := sample.Write(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				_, _ = fmt.Fprintln(out, filepath.Join(args[0], name+store.Extension))
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
