package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/medview/pkg/logging"
	teaui "tableflip.dev/medview/pkg/runner/tea"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui [path]",
		Short: "open the text-based user interface",
		Example: `
medview ui
medview ui '#imaging/ct/R1'
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: pathCompletions,
		RunE:              runUI,
	}

	topLevel.AddCommand(cmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	u := teaui.UI{
		Config:  cfg,
		Path:    path,
		LogFile: viper.GetString("log.file"),
		Log:     logging.Log,
	}
	return u.Do(cmd.Context())
}
