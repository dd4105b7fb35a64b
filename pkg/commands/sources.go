package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/runner/info"
)

func addSources(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "sources",
		Aliases: []string{"info"},
		Short:   "Details about the collections and where they are loaded from.",
		Example: `
medview sources
medview sources --data https://example.org/records
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s := info.Info{
				Config:     &cfg.Store,
				ConfigFile: viper.ConfigFileUsed(),
				Out:        cmd.OutOrStdout(),
				NoColor:    oo.Plain(cmd.OutOrStdout()),
				Log:        logging.Log,
			}
			return s.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
